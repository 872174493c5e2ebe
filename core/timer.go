package core

import "sync/atomic"

// TimerFreq is the system tick rate; RP2040's timer counts microseconds
const (
	TimerFreq = 1000000
)

var (
	systemTicks   uint32
	hardwareClock func() uint32
)

// SetHardwareClock makes GetTime read a free-running hardware counter
// instead of the value last stored with SetTime. Interrupt handlers then see
// the real time rather than the main loop's last update.
func SetHardwareClock(clock func() uint32) {
	hardwareClock = clock
}

// GetTime returns the current system time in timer ticks
func GetTime() uint32 {
	if hardwareClock != nil {
		return hardwareClock()
	}
	return atomic.LoadUint32(&systemTicks)
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicks, ticks)
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * TimerFreq / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / TimerFreq)
}

// TimerFromMS converts milliseconds to timer ticks
func TimerFromMS(ms uint32) uint32 {
	return TimerFromUS(ms * 1000)
}

// ProcessTimers processes scheduled timers
func ProcessTimers() {
	currentTime = GetTime()
	TimerDispatch()
}
