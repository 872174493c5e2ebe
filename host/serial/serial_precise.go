//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// PrecisePort wraps go.bug.st/serial. It takes any baud rate the adapter
// supports and times reads out in milliseconds.
type PrecisePort struct {
	port serial.Port
	cfg  *Config
}

// modeFor maps Config onto go.bug.st line settings
func modeFor(cfg *Config) *serial.Mode {
	mode := &serial.Mode{
		BaudRate: cfg.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	switch cfg.Parity {
	case ParityEven:
		mode.Parity = serial.EvenParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	}
	if cfg.StopBits == 2 {
		mode.StopBits = serial.TwoStopBits
	}
	return mode
}

func openPrecise(cfg *Config) (Port, error) {
	port, err := serial.Open(cfg.Device, modeFor(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(time.Duration(cfg.ReadTimeout) * time.Millisecond); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Device, err)
		}
	}
	return &PrecisePort{port: port, cfg: cfg}, nil
}

// Read reads data from the serial port. go.bug.st/serial returns (0, nil)
// when the read timeout expires; that becomes ErrTimeout.
func (p *PrecisePort) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if n == 0 && err == nil && p.cfg.ReadTimeout > 0 {
		return 0, ErrTimeout
	}
	return n, err
}

// Write writes data to the serial port
func (p *PrecisePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *PrecisePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards data received but not yet read
func (p *PrecisePort) Flush() error {
	return p.port.ResetInputBuffer()
}
