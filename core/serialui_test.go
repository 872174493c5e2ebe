package core

import (
	"errors"
	"testing"
)

var errParity = errors.New("parity error")

// fakeUART is a scripted Transceiver
type fakeUART struct {
	rx       []byte
	rxErr    error
	txReady  bool
	idle     bool
	written  []byte
	writeErr error
}

func (f *fakeUART) IsLineIdle() bool {
	idle := f.idle
	f.idle = false // cleared by reading, like the status register
	return idle
}

func (f *fakeUART) IsTransmitReady() bool { return f.txReady }

func (f *fakeUART) IsReceiveReady() bool { return len(f.rx) > 0 || f.rxErr != nil }

func (f *fakeUART) ReadByte() (byte, error) {
	if f.rxErr != nil {
		err := f.rxErr
		f.rxErr = nil
		return 0, err
	}
	if len(f.rx) == 0 {
		return 0, ErrNotReady
	}
	c := f.rx[0]
	f.rx = f.rx[1:]
	return c, nil
}

func (f *fakeUART) WriteByte(c byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if !f.txReady {
		return ErrNotReady
	}
	f.written = append(f.written, c)
	return nil
}

func TestSerialUIDirectWrite(t *testing.T) {
	uart := &fakeUART{txReady: true}
	ui := NewSerialUI(uart, 4, 16)

	if err := ui.Write('a'); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if string(uart.written) != "a" {
		t.Errorf("Expected direct write of 'a', got %q", uart.written)
	}
	if ui.Pending() != 0 {
		t.Errorf("Direct write should bypass the queue, pending %d", ui.Pending())
	}
}

func TestSerialUIQueuesWhenBusy(t *testing.T) {
	uart := &fakeUART{}
	ui := NewSerialUI(uart, 4, 16)

	n, err := ui.WriteString("hi")
	if err != nil || n != 2 {
		t.Fatalf("Expected 2 bytes queued, got %d (err %v)", n, err)
	}
	if len(uart.written) != 0 {
		t.Errorf("Busy transmitter received bytes: %q", uart.written)
	}
	if ui.Pending() != 2 {
		t.Errorf("Expected 2 pending, got %d", ui.Pending())
	}

	// Each transmit-ready event drains exactly one byte
	uart.txReady = true
	ui.OnEvent()
	if string(uart.written) != "h" || ui.Pending() != 1 {
		t.Errorf("After one event: written %q pending %d", uart.written, ui.Pending())
	}
	ui.OnEvent()
	ui.OnEvent()
	if string(uart.written) != "hi" || ui.Pending() != 0 {
		t.Errorf("After drain: written %q pending %d", uart.written, ui.Pending())
	}
}

func TestSerialUIKeepsOrderBehindQueue(t *testing.T) {
	uart := &fakeUART{}
	ui := NewSerialUI(uart, 4, 16)
	ui.Write('1')

	// Transmitter frees up before the interrupt drains the queue
	uart.txReady = true
	ui.Write('2')
	ui.OnEvent()
	ui.OnEvent()

	if string(uart.written) != "12" {
		t.Errorf("Expected %q, got %q", "12", uart.written)
	}
}

func TestSerialUIBackpressure(t *testing.T) {
	uart := &fakeUART{}
	ui := NewSerialUI(uart, 3, 16)

	n, err := ui.WriteString("abc")
	if err != nil || n != 3 {
		t.Fatalf("Expected queue to accept 3 bytes, got %d (err %v)", n, err)
	}

	if err := ui.Write('d'); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("Expected ErrWouldBlock, got %v", err)
	}
	if got := string(ui.txq.Snapshot()); got != "abc" {
		t.Errorf("Queue changed on a refused write: %q", got)
	}

	n, err = ui.WriteString("xyz")
	if n != 0 || !errors.Is(err, ErrWouldBlock) {
		t.Errorf("Expected 0 and ErrWouldBlock, got %d and %v", n, err)
	}
}

func TestSerialUIDirectWriteErrorFallsBackToQueue(t *testing.T) {
	uart := &fakeUART{txReady: true, writeErr: errors.New("overrun")}
	ui := NewSerialUI(uart, 2, 16)

	if err := ui.Write('q'); err != nil {
		t.Fatalf("Expected the byte to be queued, got %v", err)
	}
	if ui.Pending() != 1 {
		t.Errorf("Expected 1 pending, got %d", ui.Pending())
	}
}

func TestSerialUIReceiveEditsLine(t *testing.T) {
	uart := &fakeUART{rx: []byte("abcd\x02\x02_")}
	ui := NewSerialUI(uart, 4, 16)

	for uart.IsReceiveReady() {
		ui.OnEvent()
	}
	if ui.Content() != "ab_cd" {
		t.Errorf("Expected %q, got %q", "ab_cd", ui.Content())
	}
	if ui.Cursor() != 3 {
		t.Errorf("Expected cursor 3, got %d", ui.Cursor())
	}
}

func TestSerialUIServicesBothDirectionsInOneEvent(t *testing.T) {
	uart := &fakeUART{}
	ui := NewSerialUI(uart, 4, 16)
	ui.Write('>')

	uart.rx = []byte{'x'}
	uart.txReady = true
	ui.OnEvent()

	if ui.Content() != "x" {
		t.Errorf("Receive side not serviced: %q", ui.Content())
	}
	if string(uart.written) != ">" {
		t.Errorf("Transmit side not serviced: %q", uart.written)
	}
}

func TestSerialUISwallowsReadErrors(t *testing.T) {
	ClearEventRing()
	uart := &fakeUART{rxErr: errParity}
	ui := NewSerialUI(uart, 4, 16)
	ui.Process('a')

	ui.OnEvent()
	if ui.Content() != "a" {
		t.Errorf("Read error changed the line: %q", ui.Content())
	}

	events := Events()
	if len(events) != 1 || events[0].EventType != EvtRxError || events[0].Source != SourceConsole {
		t.Errorf("Expected one console RX_ERROR event, got %+v", events)
	}
}

func TestTransceiverRegistry(t *testing.T) {
	defer SetTransceiver(UARTConsole, nil)

	uart := &fakeUART{}
	SetTransceiver(UARTConsole, uart)
	if MustTransceiver(UARTConsole) != Transceiver(uart) {
		t.Errorf("Registry returned a different transceiver")
	}

	defer func() {
		if recover() == nil {
			t.Errorf("Expected panic for an unregistered role")
		}
	}()
	MustTransceiver(UARTSbus)
}
