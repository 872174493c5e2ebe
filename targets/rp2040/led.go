//go:build rp2040 || rp2350

package main

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"

	"rcfirm/core"
)

var linkColors = [...]color.RGBA{
	core.LinkLost:     {R: 0x20, A: 0xff},
	core.LinkUp:       {G: 0x20, A: 0xff},
	core.LinkFailsafe: {R: 0x20, G: 0x10, A: 0xff},
}

// StatusLED shows the link state on a single WS2812
type StatusLED struct {
	dev ws2812.Device
	buf [1]color.RGBA
}

// NewStatusLED configures the data pin; a negative pin disables the LED
func NewStatusLED(pin int) *StatusLED {
	if pin < 0 {
		return nil
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &StatusLED{dev: ws2812.NewWS2812(p)}
}

// Show writes the colour for a link state. The driver masks interrupts for
// the bit timing (about 30us for one LED), so call it from the main loop.
func (l *StatusLED) Show(state core.LinkState) error {
	if l == nil || int(state) >= len(linkColors) {
		return nil
	}
	l.buf[0] = linkColors[state]
	return l.dev.WriteColors(l.buf[:])
}
