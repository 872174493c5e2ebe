package core

// LinkState summarises the RC link as seen from decoded frames
type LinkState uint8

const (
	LinkLost     LinkState = iota // No new frame within the timeout
	LinkUp                        // Frames arriving, receiver not in failsafe
	LinkFailsafe                  // Frames arriving with the failsafe flag set
)

func (s LinkState) String() string {
	switch s {
	case LinkLost:
		return "lost"
	case LinkUp:
		return "up"
	case LinkFailsafe:
		return "failsafe"
	}
	return "unknown"
}

// LinkMonitor polls a FrameSource from the timer scheduler and reports link
// state changes. It only observes; it never resets the decoder.
type LinkMonitor struct {
	Timer Timer

	source   FrameSource
	period   uint32 // ticks between checks
	timeout  uint32 // ticks without a new frame before the link is lost
	lastSeq  uint32
	lastSeen uint32
	state    LinkState
	onChange func(LinkState)
}

// NewLinkMonitor creates a monitor that checks every periodMS and declares
// the link lost after timeoutMS without a new frame
func NewLinkMonitor(source FrameSource, periodMS, timeoutMS uint32, onChange func(LinkState)) *LinkMonitor {
	if periodMS == 0 {
		periodMS = 20
	}
	m := &LinkMonitor{
		source:   source,
		period:   TimerFromMS(periodMS),
		timeout:  TimerFromMS(timeoutMS),
		state:    LinkLost,
		onChange: onChange,
	}
	m.Timer.Handler = m.check
	return m
}

// Start schedules the first check one period from now
func (m *LinkMonitor) Start() {
	now := GetTime()
	m.lastSeen = now
	m.Timer.WakeTime = now + m.period
	ScheduleTimer(&m.Timer)
}

// Stop removes the monitor from the schedule
func (m *LinkMonitor) Stop() {
	CancelTimer(&m.Timer)
}

// State returns the last reported link state
func (m *LinkMonitor) State() LinkState {
	return m.state
}

func (m *LinkMonitor) check(t *Timer) uint8 {
	now := GetTime()
	f, seq := m.source.LatestFrame()

	next := m.state
	switch {
	case seq != m.lastSeq:
		m.lastSeq = seq
		m.lastSeen = now
		if f.Failsafe {
			next = LinkFailsafe
		} else {
			next = LinkUp
		}
	case now-m.lastSeen >= m.timeout:
		next = LinkLost
	}

	if next != m.state {
		RecordEvent(EvtLinkChange, SourceLink, now, uint32(m.state), uint32(next))
		m.state = next
		if m.onChange != nil {
			m.onChange(next)
		}
	}

	t.WakeTime = now + m.period
	return SF_RESCHEDULE
}
