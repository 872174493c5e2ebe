package core

import "rcfirm/protocol"

// FrameSnapshot is the last completed SBUS frame and its sequence number.
// Seq increments once per decoded frame and wraps.
type FrameSnapshot struct {
	Frame protocol.Frame
	Seq   uint32
}

// FrameSource supplies the most recent decoded frame
type FrameSource interface {
	LatestFrame() (protocol.Frame, uint32)
}

// Dispatcher is the context object handed to the interrupt vectors. It owns
// the SBUS decoder and the console, and publishes completed frames to lower
// priority code through a priority-ceiling Resource.
type Dispatcher struct {
	sbus    Transceiver
	decoder *protocol.Decoder
	latest  *Resource[FrameSnapshot]
	ready   chan struct{}

	console *SerialUI
}

// NewDispatcher wires an SBUS receiver and a console together
func NewDispatcher(sbus Transceiver, console *SerialUI) *Dispatcher {
	return &Dispatcher{
		sbus:    sbus,
		decoder: protocol.NewDecoder(),
		latest:  NewResource(FrameSnapshot{}),
		ready:   make(chan struct{}, 1),
		console: console,
	}
}

// OnSbusInterrupt services the SBUS UART. It runs at the highest priority
// touching the decoder, so the decoder itself needs no lock.
func (d *Dispatcher) OnSbusInterrupt() {
	if d.sbus.IsLineIdle() {
		if pos := d.decoder.Position(); pos != 0 {
			RecordEvent(EvtIdleReset, SourceSbus, GetTime(), uint32(pos), 0)
		}
		d.decoder.ProcessIdle()
	}
	if !d.sbus.IsReceiveReady() {
		return
	}

	c, err := d.sbus.ReadByte()
	if err != nil {
		// A parity or framing error leaves the byte position unknown
		RecordEvent(EvtRxError, SourceSbus, GetTime(), uint32(d.decoder.Position()), 0)
		d.decoder.ProcessIdle()
		return
	}

	atEnd := d.decoder.State() == protocol.AwaitingTerminator
	if !d.decoder.ProcessChar(c) {
		if atEnd {
			RecordEvent(EvtFrameBadEnd, SourceSbus, GetTime(), uint32(c), 0)
		}
		return
	}

	f := d.decoder.Frame()
	d.latest.Lock(func(s *FrameSnapshot) {
		s.Frame = f
		s.Seq++
	})

	// Coalesced wake-up for the consumer
	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// OnConsoleInterrupt services the console UART
func (d *Dispatcher) OnConsoleInterrupt() {
	d.console.OnEvent()
}

// FrameReady returns a coalesced notification sent after each decoded frame.
// Callers must re-read LatestFrame after waking.
func (d *Dispatcher) FrameReady() <-chan struct{} {
	return d.ready
}

// LatestFrame returns a consistent copy of the last decoded frame and its
// sequence number. Seq 0 means no frame has been decoded yet.
func (d *Dispatcher) LatestFrame() (protocol.Frame, uint32) {
	s := d.latest.Get()
	return s.Frame, s.Seq
}

// DecoderStats returns the decoder counters
func (d *Dispatcher) DecoderStats() protocol.DecoderStats {
	var stats protocol.DecoderStats
	Critical(func() {
		stats = d.decoder.Stats()
	})
	return stats
}

// DumpDiagnostics writes the event ring and the decoder counters to the
// debug writer. The main loop calls it after recovering from a panic.
func (d *Dispatcher) DumpDiagnostics() {
	DumpEventRing()
	if debugPrintln != nil {
		debugPrintln(FormatStats(d.DecoderStats()))
	}
}

// WriteConsole queues text for the console from below console priority.
// It returns the number of bytes accepted; ErrWouldBlock means the rest
// must be retried later.
func (d *Dispatcher) WriteConsole(s string) (int, error) {
	var (
		n   int
		err error
	)
	Critical(func() {
		n, err = d.console.WriteString(s)
	})
	return n, err
}

// ConsoleLine returns the line being edited and its cursor
func (d *Dispatcher) ConsoleLine() (string, int) {
	var (
		line   string
		cursor int
	)
	Critical(func() {
		line = d.console.Content()
		cursor = d.console.Cursor()
	})
	return line, cursor
}
