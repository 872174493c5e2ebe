package core

import "testing"

func recordingTimer(wake uint32, fired *[]uint32) *Timer {
	return &Timer{
		WakeTime: wake,
		Handler: func(t *Timer) uint8 {
			*fired = append(*fired, t.WakeTime)
			return SF_DONE
		},
	}
}

func TestSchedulerOrder(t *testing.T) {
	resetTimers()
	var fired []uint32

	ScheduleTimer(recordingTimer(300, &fired))
	ScheduleTimer(recordingTimer(100, &fired))
	ScheduleTimer(recordingTimer(200, &fired))

	SetTime(250)
	ProcessTimers()
	if len(fired) != 2 || fired[0] != 100 || fired[1] != 200 {
		t.Fatalf("Expected [100 200], got %v", fired)
	}

	SetTime(300)
	ProcessTimers()
	if len(fired) != 3 || fired[2] != 300 {
		t.Errorf("Expected 300 to fire at its wake time, got %v", fired)
	}
}

func TestSchedulerWraparound(t *testing.T) {
	resetTimers()
	var fired []uint32

	SetTime(0xFFFFFF00)
	ScheduleTimer(recordingTimer(0x00000010, &fired))
	ScheduleTimer(recordingTimer(0xFFFFFFF0, &fired))

	SetTime(0xFFFFFFF8)
	ProcessTimers()
	if len(fired) != 1 || fired[0] != 0xFFFFFFF0 {
		t.Fatalf("Expected only the pre-wrap timer, got %v", fired)
	}

	SetTime(0x20)
	ProcessTimers()
	if len(fired) != 2 || fired[1] != 0x10 {
		t.Errorf("Expected the post-wrap timer to fire, got %v", fired)
	}
}

func TestSchedulerReschedule(t *testing.T) {
	resetTimers()
	count := 0
	timer := &Timer{
		WakeTime: 10,
		Handler: func(t *Timer) uint8 {
			count++
			t.WakeTime += 10
			return SF_RESCHEDULE
		},
	}
	ScheduleTimer(timer)

	SetTime(35)
	ProcessTimers()
	// Catches up on 10, 20 and 30 in one dispatch
	if count != 3 {
		t.Errorf("Expected 3 runs, got %d", count)
	}
	if timerList != timer || timer.WakeTime != 40 {
		t.Errorf("Expected timer rescheduled at 40, got %d", timer.WakeTime)
	}
}

func TestCancelTimer(t *testing.T) {
	resetTimers()
	var fired []uint32

	a := recordingTimer(10, &fired)
	b := recordingTimer(20, &fired)
	c := recordingTimer(30, &fired)
	ScheduleTimer(a)
	ScheduleTimer(b)
	ScheduleTimer(c)

	CancelTimer(b)
	CancelTimer(a)
	// Cancelling something not scheduled is harmless
	CancelTimer(&Timer{})

	SetTime(100)
	ProcessTimers()
	if len(fired) != 1 || fired[0] != 30 {
		t.Errorf("Expected only the 30 timer to fire, got %v", fired)
	}
}

func TestTimerConversions(t *testing.T) {
	if got := TimerFromMS(20); got != 20000 {
		t.Errorf("TimerFromMS(20) = %d, want 20000", got)
	}
	if got := TimerToUS(TimerFromUS(1234)); got != 1234 {
		t.Errorf("Round trip of 1234us gave %d", got)
	}
}

func TestHardwareClock(t *testing.T) {
	resetTimers()
	defer SetHardwareClock(nil)

	SetTime(5)
	SetHardwareClock(func() uint32 { return 42 })
	if GetTime() != 42 {
		t.Errorf("Expected hardware clock value 42, got %d", GetTime())
	}
	SetHardwareClock(nil)
	if GetTime() != 5 {
		t.Errorf("Expected stored time 5, got %d", GetTime())
	}
}
