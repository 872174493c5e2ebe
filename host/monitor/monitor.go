// Package monitor decodes SBUS from a USB-serial adapter on the host using
// the same decoder the firmware runs.
package monitor

import (
	"context"

	"github.com/golang/glog"

	"rcfirm/host/serial"
	"rcfirm/protocol"
)

// FrameFunc receives every decoded frame
type FrameFunc func(f protocol.Frame)

// Monitor feeds bytes from a serial.Transceiver into a protocol.Decoder.
// A read timeout on the port is the idle gap between frames.
type Monitor struct {
	uart    *serial.Transceiver
	decoder *protocol.Decoder
	onFrame FrameFunc
	last    protocol.Frame
	hasLast bool
}

// New creates a monitor for an open port
func New(port serial.Port, onFrame FrameFunc) *Monitor {
	return &Monitor{
		uart:    serial.NewTransceiver(port, protocol.FrameSize*4),
		decoder: protocol.NewDecoder(),
		onFrame: onFrame,
	}
}

// Run polls the port until ctx is done or the port fails.
// It returns ctx.Err() on cancellation.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.uart.Poll(); err != nil {
			glog.Errorf("sbus read failed: %v", err)
			return err
		}
		m.drain()
	}
}

func (m *Monitor) drain() {
	if m.uart.IsLineIdle() {
		if pos := m.decoder.Position(); pos != 0 {
			glog.V(2).Infof("idle line, dropped partial frame at byte %d", pos)
		}
		m.decoder.ProcessIdle()
	}
	for m.uart.IsReceiveReady() {
		c, err := m.uart.ReadByte()
		if err != nil {
			return
		}
		atEnd := m.decoder.State() == protocol.AwaitingTerminator
		if !m.decoder.ProcessChar(c) {
			if atEnd {
				glog.Warningf("bad frame terminator 0x%02x", c)
			}
			continue
		}
		m.publish(m.decoder.Frame())
	}
}

func (m *Monitor) publish(f protocol.Frame) {
	if m.hasLast && f.Failsafe != m.last.Failsafe {
		glog.Infof("failsafe %v", f.Failsafe)
	}
	if glog.V(3) {
		glog.Infof("frame %v", f.Channels)
	}
	m.last, m.hasLast = f, true
	if m.onFrame != nil {
		m.onFrame(f)
	}
}

// Last returns the most recent frame and whether one has been decoded
func (m *Monitor) Last() (protocol.Frame, bool) {
	return m.last, m.hasLast
}

// Stats returns the decoder counters
func (m *Monitor) Stats() protocol.DecoderStats {
	return m.decoder.Stats()
}
