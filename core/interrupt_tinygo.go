//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks every interrupt and returns the previous mask.
// Cortex-M0+ has no BASEPRI, so a full mask is the only ceiling available.
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the mask saved by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
