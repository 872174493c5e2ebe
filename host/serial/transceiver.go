package serial

import (
	"errors"

	"rcfirm/core"
	"rcfirm/protocol"
)

// Transceiver adapts a Port to core.Transceiver so the firmware's decoder
// and console code can run against a USB-serial adapter. Poll does the
// blocking read; the core.Transceiver methods never block.
type Transceiver struct {
	port Port
	rx   *protocol.FifoBuffer
	buf  [64]byte
	idle bool
}

// NewTransceiver creates an adapter with room for rxSize unread bytes
func NewTransceiver(port Port, rxSize int) *Transceiver {
	if rxSize <= 0 {
		rxSize = 256
	}
	return &Transceiver{
		port: port,
		rx:   protocol.NewFifoBuffer(rxSize),
	}
}

// Poll reads whatever the port has into the receive queue. A read timeout
// marks the line idle and is not an error.
func (t *Transceiver) Poll() error {
	free := t.rx.Free()
	if free == 0 {
		return nil
	}
	if free > len(t.buf) {
		free = len(t.buf)
	}

	n, err := t.port.Read(t.buf[:free])
	if n > 0 {
		t.rx.Write(t.buf[:n])
	}
	if errors.Is(err, ErrTimeout) {
		t.idle = true
		return nil
	}
	return err
}

// IsLineIdle reports a timeout seen after every earlier byte was consumed.
// The flag clears once read.
func (t *Transceiver) IsLineIdle() bool {
	if t.idle && t.rx.IsEmpty() {
		t.idle = false
		return true
	}
	return false
}

// IsTransmitReady is always true; host writes block in the driver
func (t *Transceiver) IsTransmitReady() bool {
	return true
}

func (t *Transceiver) IsReceiveReady() bool {
	return !t.rx.IsEmpty()
}

func (t *Transceiver) ReadByte() (byte, error) {
	c, ok := t.rx.PopByte()
	if !ok {
		return 0, core.ErrNotReady
	}
	return c, nil
}

func (t *Transceiver) WriteByte(c byte) error {
	_, err := t.port.Write([]byte{c})
	return err
}
