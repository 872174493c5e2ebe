package core

import "errors"

var (
	// ErrWouldBlock means the operation made no progress and should be retried later
	ErrWouldBlock = errors.New("would block")

	// ErrNotReady is returned by transceivers polled while their status flag is clear
	ErrNotReady = errors.New("transceiver not ready")
)

// Transceiver is the abstract per-UART capability that core code polls.
// Platform-specific implementations handle the registers; core code never
// configures baud rate, parity or pins.
// None of the methods may block.
type Transceiver interface {
	// IsLineIdle reports that no start bit has arrived for an idle threshold
	IsLineIdle() bool

	// IsTransmitReady reports that WriteByte will accept a byte
	IsTransmitReady() bool

	// IsReceiveReady reports that ReadByte has a byte
	IsReceiveReady() bool

	// ReadByte returns the next received byte, ErrNotReady when nothing is
	// waiting, or a line error (parity, framing, overrun)
	ReadByte() (byte, error)

	// WriteByte hands one byte to the transmitter or returns ErrNotReady
	WriteByte(c byte) error
}

// UARTRole names the job a transceiver was registered for
type UARTRole uint8

const (
	UARTSbus UARTRole = iota
	UARTConsole
	numUARTRoles
)

// Transceivers registered by target code, one per role
var transceivers [numUARTRoles]Transceiver

// SetTransceiver is called by target-specific code to register a UART
func SetTransceiver(role UARTRole, t Transceiver) {
	transceivers[role] = t
}

// MustTransceiver returns the registered UART or panics if missing
func MustTransceiver(role UARTRole) Transceiver {
	t := transceivers[role]
	if t == nil {
		panic("transceiver not configured")
	}
	return t
}
