package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"rcfirm/config"
	"rcfirm/host/serial"
)

const toolKey = "$tool"

// Tool holds the open ports shared by shell commands
type Tool struct {
	Config  *config.Config
	Shell   *ishell.Shell
	console serial.Port
}

// ToolFrom gets the Tool from an ishell context
func ToolFrom(c *ishell.Context) *Tool {
	return c.Get(toolKey).(*Tool)
}

// portConfig converts a UART section into serial port settings
func portConfig(u config.UARTConfig, readTimeoutMs int) (*serial.Config, error) {
	if u.Device == "" {
		return nil, fmt.Errorf("no device configured")
	}
	parity, err := serial.ParseParity(u.Parity)
	if err != nil {
		return nil, err
	}
	return &serial.Config{
		Device:      u.Device,
		Baud:        u.Baud,
		Parity:      parity,
		StopBits:    u.StopBits,
		ReadTimeout: readTimeoutMs,
	}, nil
}

// Console opens the device console on first use
func (t *Tool) Console() (serial.Port, error) {
	if t.console != nil {
		return t.console, nil
	}
	cfg, err := portConfig(t.Config.Console, 100)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, err
	}
	glog.Infof("console open on %s at %d baud", cfg.Device, cfg.Baud)
	t.console = port
	return port, nil
}

// SendKeys writes bytes to the console and prints what the device echoes
func (t *Tool) SendKeys(c *ishell.Context, data []byte) error {
	port, err := t.Console()
	if err != nil {
		return err
	}
	if _, err := port.Write(data); err != nil {
		return err
	}
	glog.V(2).Infof("sent %q", data)
	echo, err := readEcho(port, 500*time.Millisecond)
	if err != nil {
		return err
	}
	if echo != "" {
		c.Println(showLine(echo))
	}
	return nil
}

// Close releases any open port
func (t *Tool) Close() {
	if t.console != nil {
		t.console.Close()
		t.console = nil
	}
}

// readEcho collects console output until the port has been quiet for one
// read timeout or limit has passed
func readEcho(port serial.Port, limit time.Duration) (string, error) {
	var (
		out      []byte
		buf      [128]byte
		deadline = time.Now().Add(limit)
	)
	for time.Now().Before(deadline) {
		n, err := port.Read(buf[:])
		out = append(out, buf[:n]...)
		if errors.Is(err, serial.ErrTimeout) {
			break
		}
		if err != nil {
			return string(out), err
		}
	}
	return string(out), nil
}

// showLine keeps the last redraw of a carriage-return rendered line
func showLine(s string) string {
	s = strings.TrimRight(s, "\r\n")
	if i := strings.LastIndexAny(s, "\r\n"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
