//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"rcfirm/core"
)

// RP2040/RP2350 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// InitClock points the core timer at the 1MHz hardware counter, so
// interrupt handlers stamp events with the real time
func InitClock() {
	core.SetHardwareClock(GetHardwareTime)
}

// GetHardwareTime returns the low 32 bits of the microsecond counter.
// Reading TIMERAWL does not latch the high word.
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}
