//go:build rp2040 || rp2350

package main

import (
	"machine"

	"rcfirm/core"
)

// InitUSB brings up USB CDC and routes core debug output to it.
// SBUS and the console use the hardware UARTs, so USB carries only
// diagnostics.
func InitUSB() {
	err := machine.Serial.Configure(machine.UARTConfig{})
	if err != nil {
		return
	}
	core.InitDebug(usbDebugWriter)
}

func usbDebugWriter(s string) {
	machine.Serial.Write([]byte(s))
	machine.Serial.Write([]byte("\r\n"))
}
