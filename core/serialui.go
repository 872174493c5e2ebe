package core

import "rcfirm/protocol"

// DefaultQueueSize is the outbound queue capacity used when none is configured
const DefaultQueueSize = 64

// SerialUI services one console UART from its interrupt handler: received
// bytes edit a LineBuffer, and queued output drains one byte per event.
type SerialUI struct {
	uart Transceiver
	txq  *protocol.FifoBuffer
	line *LineBuffer
}

// NewSerialUI creates a console with an empty line and an empty outbound queue
func NewSerialUI(uart Transceiver, queueSize, lineCapacity int) *SerialUI {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &SerialUI{
		uart: uart,
		txq:  protocol.NewFifoBuffer(queueSize),
		line: NewLineBuffer(lineCapacity),
	}
}

// Write sends a byte to the console. A ready transmitter takes it directly
// unless earlier bytes are still queued; otherwise it is queued for the
// interrupt handler. ErrWouldBlock means the queue is full and the caller
// still owns the byte.
func (s *SerialUI) Write(c byte) error {
	if s.txq.IsEmpty() && s.uart.IsTransmitReady() {
		if err := s.uart.WriteByte(c); err == nil {
			return nil
		}
	}
	if !s.txq.PushByte(c) {
		RecordEvent(EvtTxQueueFull, SourceConsole, GetTime(), uint32(c), uint32(s.txq.Cap()))
		return ErrWouldBlock
	}
	return nil
}

// WriteString writes bytes until the first ErrWouldBlock and returns how many were accepted
func (s *SerialUI) WriteString(str string) (int, error) {
	for i := 0; i < len(str); i++ {
		if err := s.Write(str[i]); err != nil {
			return i, err
		}
	}
	return len(str), nil
}

// OnEvent services one console interrupt. The hardware may raise receive and
// transmit readiness together, so both are checked on every call. Line errors
// are dropped: a glitch costs a keystroke, never the console.
func (s *SerialUI) OnEvent() {
	if s.uart.IsReceiveReady() {
		c, err := s.uart.ReadByte()
		if err == nil {
			s.line.Process(c)
		} else {
			RecordEvent(EvtRxError, SourceConsole, GetTime(), 0, 0)
		}
	}
	if s.uart.IsTransmitReady() {
		if c, ok := s.txq.PopByte(); ok {
			_ = s.uart.WriteByte(c)
		}
	}
}

// Process feeds a byte to the line as if it had been received
func (s *SerialUI) Process(c byte) {
	s.line.Process(c)
}

// Content returns the line being edited
func (s *SerialUI) Content() string {
	return s.line.Content()
}

// Cursor returns the line's insertion point
func (s *SerialUI) Cursor() int {
	return s.line.Cursor()
}

// Pending returns the number of queued outbound bytes
func (s *SerialUI) Pending() int {
	return s.txq.Available()
}
