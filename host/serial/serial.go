package serial

import (
	"errors"
	"fmt"
	"io"
)

// ErrTimeout is reported when a read returns nothing within ReadTimeout.
// On an SBUS line that gap is the idle period between frames.
var ErrTimeout = errors.New("serial read timeout")

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Standard-rate lines (using github.com/tarm/serial)
// - SBUS and other custom-rate lines (using go.bug.st/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Parity selects the parity bit appended to each character
type Parity byte

const (
	ParityNone Parity = 'N'
	ParityEven Parity = 'E'
	ParityOdd  Parity = 'O'
)

// ParseParity maps a config name ("none", "even", "odd") to a Parity
func ParseParity(name string) (Parity, error) {
	switch name {
	case "", "none":
		return ParityNone, nil
	case "even":
		return ParityEven, nil
	case "odd":
		return ParityOdd, nil
	}
	return 0, errors.New("unknown parity " + name)
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	// Baud rate (100000 for SBUS, 19200 for the console)
	Baud int

	// Parity and stop bits; SBUS and the console both run 8E2
	Parity   Parity
	StopBits int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the SBUS line settings. The adapter must invert
// the signal in hardware; USB-serial chips only see the logic level.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        100000,
		Parity:      ParityEven,
		StopBits:    2,
		ReadTimeout: 2, // Inter-frame gap is at least 3ms; needs a millisecond timer
	}
}

// ConsoleConfig returns the device console line settings
func ConsoleConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        19200,
		Parity:      ParityEven,
		StopBits:    2,
		ReadTimeout: 100,
	}
}

// Driver names the backend that serves a Config
type Driver int

const (
	// DriverTermios uses tarm/serial: standard baud table and a read
	// timeout counted in tenths of a second
	DriverTermios Driver = iota
	// DriverPrecise uses go.bug.st/serial: arbitrary baud rates and
	// millisecond read timeouts
	DriverPrecise
)

func (d Driver) String() string {
	if d == DriverPrecise {
		return "precise"
	}
	return "termios"
}

// standardBauds is the rate table tarm/serial accepts on every platform
var standardBauds = map[int]bool{
	50: true, 75: true, 110: true, 134: true, 150: true, 200: true,
	300: true, 600: true, 1200: true, 1800: true, 2400: true, 4800: true,
	9600: true, 19200: true, 38400: true, 57600: true, 115200: true,
	230400: true,
}

// Validate checks the settings before any device is touched
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if c.Device == "" {
		return fmt.Errorf("no device")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	switch c.Parity {
	case 0, ParityNone, ParityEven, ParityOdd:
	default:
		return fmt.Errorf("invalid parity %q", rune(c.Parity))
	}
	if c.StopBits != 0 && c.StopBits != 1 && c.StopBits != 2 {
		return fmt.Errorf("invalid stop bits %d", c.StopBits)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("invalid read timeout %d", c.ReadTimeout)
	}
	return nil
}

// Driver picks the backend for c. tarm/serial is kept for the standard
// rates whose timeout it can express; anything else, SBUS included,
// goes to go.bug.st/serial.
func (c *Config) Driver() Driver {
	if !standardBauds[c.Baud] || c.ReadTimeout%100 != 0 {
		return DriverPrecise
	}
	return DriverTermios
}
