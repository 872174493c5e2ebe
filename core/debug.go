package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures a protocol or link event for post-mortem analysis
type Event struct {
	EventType uint8  // Event type code
	Source    uint8  // Which UART raised it
	Clock     uint32 // System clock at event
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtFrameBadEnd = 1 // SBUS terminator was not 0x00 (Value1 = byte)
	EvtIdleReset   = 2 // Idle line discarded a partial frame (Value1 = position)
	EvtRxError     = 3 // Transceiver reported a line error on read
	EvtTxQueueFull = 4 // Console write refused (Value1 = byte, Value2 = capacity)
	EvtLinkChange  = 5 // Link monitor state change (Value1 = old, Value2 = new)
)

// Event sources
const (
	SourceSbus    = 0
	SourceConsole = 1
	SourceLink    = 2
)

const (
	EventRingSize = 32 // Keep last 32 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	// Event capture ring buffer (non-blocking, for post-mortem)
	eventRing     [EventRingSize]Event
	eventRingHead uint8
	eventsEnabled bool = true

	// Async debug output channel
	debugChan chan string
)

// SetDebugWriter sets the platform-specific debug output function
// This allows platforms to redirect debug output to USB, a spare UART, etc.
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// InitDebug routes debug output to writer, turns it on and starts the
// async worker. Platform code calls it once the output device is up.
func InitDebug(writer DebugWriter) {
	SetDebugWriter(writer)
	SetDebugEnabled(true)
	InitAsyncDebug()
}

// InitAsyncDebug starts the async debug output goroutine.
// Only the first call starts a worker.
func InitAsyncDebug() {
	if debugChan != nil {
		return
	}
	debugChan = make(chan string, 16)
	go debugOutputWorker()
}

// debugOutputWorker runs in background, drains debug channel
func debugOutputWorker() {
	for msg := range debugChan {
		if debugPrintln != nil {
			debugPrintln(msg)
		}
	}
}

// DebugPrintln writes a debug message using the platform-specific writer
// Blocks if debug is enabled (use DebugAsync for non-blocking)
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// DebugAsync queues a debug message for async output (non-blocking)
// Returns immediately even if channel is full (drops message)
func DebugAsync(msg string) {
	if !debugEnabled || debugChan == nil {
		return
	}
	select {
	case debugChan <- msg:
	default:
		// Channel full, drop message
	}
}

// RecordEvent captures an event in the ring buffer.
// Safe from any interrupt priority; the write is a few stores under a mask.
func RecordEvent(eventType, source uint8, clock, value1, value2 uint32) {
	if !eventsEnabled {
		return
	}
	state := disableInterrupts()
	idx := eventRingHead
	eventRing[idx] = Event{
		EventType: eventType,
		Source:    source,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
	restoreInterrupts(state)
}

// SetEventsEnabled turns event capture on or off
func SetEventsEnabled(enabled bool) {
	eventsEnabled = enabled
}

// Events returns the captured events, oldest first
func Events() []Event {
	var out []Event
	Critical(func() {
		start := eventRingHead
		for i := uint8(0); i < EventRingSize; i++ {
			evt := eventRing[(start+i)%EventRingSize]
			if evt.EventType == 0 {
				continue // Empty slot
			}
			out = append(out, evt)
		}
	})
	return out
}

// EventName returns the short name printed for an event type
func EventName(eventType uint8) string {
	switch eventType {
	case EvtFrameBadEnd:
		return "BAD_END"
	case EvtIdleReset:
		return "IDLE_RESET"
	case EvtRxError:
		return "RX_ERROR"
	case EvtTxQueueFull:
		return "TXQ_FULL"
	case EvtLinkChange:
		return "LINK"
	}
	return "UNKNOWN"
}

// DumpEventRing outputs the event ring buffer (call on shutdown/error)
func DumpEventRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[EVENT] === Event Ring Dump ===")
	for _, evt := range Events() {
		debugPrintln("[EVENT] " + EventName(evt.EventType) +
			" src=" + itoa(int(evt.Source)) +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[EVENT] === End Dump ===")
}

// ClearEventRing clears the event buffer
func ClearEventRing() {
	Critical(func() {
		for i := range eventRing {
			eventRing[i] = Event{}
		}
		eventRingHead = 0
	})
}
