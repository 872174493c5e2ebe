package core

import (
	"testing"

	"rcfirm/protocol"
)

type stubSource struct {
	frame protocol.Frame
	seq   uint32
}

func (s *stubSource) LatestFrame() (protocol.Frame, uint32) {
	return s.frame, s.seq
}

func resetTimers() {
	timerList = nil
	SetHardwareClock(nil)
	SetTime(0)
}

func TestLinkMonitorTransitions(t *testing.T) {
	resetTimers()
	ClearEventRing()

	src := &stubSource{}
	var changes []LinkState
	m := NewLinkMonitor(src, 10, 100, func(s LinkState) {
		changes = append(changes, s)
	})
	m.Start()
	defer m.Stop()

	if m.State() != LinkLost {
		t.Fatalf("Expected initial state lost, got %v", m.State())
	}

	src.seq = 1
	SetTime(TimerFromMS(10))
	ProcessTimers()
	if m.State() != LinkUp {
		t.Fatalf("Expected up after a frame, got %v", m.State())
	}

	// Quiet but inside the timeout
	SetTime(TimerFromMS(50))
	ProcessTimers()
	if m.State() != LinkUp {
		t.Fatalf("Expected still up, got %v", m.State())
	}

	SetTime(TimerFromMS(120))
	ProcessTimers()
	if m.State() != LinkLost {
		t.Fatalf("Expected lost after the timeout, got %v", m.State())
	}

	src.seq = 2
	src.frame.Failsafe = true
	SetTime(TimerFromMS(130))
	ProcessTimers()
	if m.State() != LinkFailsafe {
		t.Fatalf("Expected failsafe, got %v", m.State())
	}

	want := []LinkState{LinkUp, LinkLost, LinkFailsafe}
	if len(changes) != len(want) {
		t.Fatalf("Expected changes %v, got %v", want, changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("Change %d: expected %v, got %v", i, want[i], changes[i])
		}
	}

	events := Events()
	if len(events) != 3 || events[2].EventType != EvtLinkChange ||
		events[2].Value1 != uint32(LinkLost) || events[2].Value2 != uint32(LinkFailsafe) {
		t.Errorf("Unexpected link events: %+v", events)
	}
}

func TestLinkMonitorStop(t *testing.T) {
	resetTimers()

	src := &stubSource{seq: 5}
	m := NewLinkMonitor(src, 0, 100, nil)
	m.Start()
	m.Stop()

	SetTime(TimerFromMS(100))
	ProcessTimers()
	if m.State() != LinkLost {
		t.Errorf("Stopped monitor still ran: state %v", m.State())
	}
}

func TestLinkStateString(t *testing.T) {
	tests := []struct {
		state LinkState
		want  string
	}{
		{LinkLost, "lost"},
		{LinkUp, "up"},
		{LinkFailsafe, "failsafe"},
		{LinkState(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("LinkState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
