//go:build rp2040 || rp2350

package main

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/volatile"
	"unsafe"

	"rcfirm/config"
	"rcfirm/core"
)

// errLine is returned by ReadByte for a byte received with a parity,
// framing, break or overrun error
var errLine = errors.New("uart line error")

// IO_BANK0 GPIOx_CTRL input override field
const (
	ctrlINOVERPos    = 16
	ctrlINOVERMask   = 0x3
	ctrlINOVERInvert = 0x1
	ctrlOUTOVERPos   = 8
	ctrlOUTOVERMask  = 0x3
	ctrlOUTOVERInv   = 0x1
)

// PL011 drives one RP2040 UART as a core.Transceiver with the FIFOs off, so
// every received byte raises an interrupt and transmit readiness is the
// single holding register.
//
// The PL011 has no idle-line flag. IsLineIdle instead compares the time of
// the previous received byte against idleGap: interrupts arrive one per
// character, so a longer gap means the line went quiet in between.
type PL011 struct {
	Bus *rp.UART0_Type

	idleGap  uint32 // ticks
	lastRX   uint32
	rxSeen   bool
	baudRate uint32
}

// NewPL011 wraps UART0 or UART1
func NewPL011(bus *rp.UART0_Type) *PL011 {
	return &PL011{Bus: bus}
}

// Configure resets the UART and applies a config section. The receive
// interrupt is enabled; the caller sets the NVIC priority.
func (u *PL011) Configure(cfg config.UARTConfig) error {
	if cfg.StopBits != 1 && cfg.StopBits != 2 {
		return errors.New("invalid stop bits")
	}
	if cfg.Baud <= 0 {
		return errors.New("invalid baud rate")
	}

	u.reset()
	u.Bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)

	tx := machine.Pin(cfg.TXPin)
	rx := machine.Pin(cfg.RXPin)
	tx.Configure(machine.PinConfig{Mode: machine.PinUART})
	rx.Configure(machine.PinConfig{Mode: machine.PinUART})
	if cfg.Invert {
		// Pin muxing rewrites the CTRL register, so the overrides go on after
		ioCtrl(rx).ReplaceBits(ctrlINOVERInvert, ctrlINOVERMask, ctrlINOVERPos)
		ioCtrl(tx).ReplaceBits(ctrlOUTOVERInv, ctrlOUTOVERMask, ctrlOUTOVERPos)
	}

	u.setBaudRate(uint32(cfg.Baud))

	// 8 data bits, FIFOs disabled
	lcr := uint32(3 << rp.UART0_UARTLCR_H_WLEN_Pos)
	if cfg.StopBits == 2 {
		lcr |= rp.UART0_UARTLCR_H_STP2
	}
	switch cfg.Parity {
	case config.ParityEven:
		lcr |= rp.UART0_UARTLCR_H_PEN | rp.UART0_UARTLCR_H_EPS
	case config.ParityOdd:
		lcr |= rp.UART0_UARTLCR_H_PEN
	}
	u.Bus.UARTLCR_H.Set(lcr)

	// One character time at the configured format, times 4
	bits := uint32(1 + 8 + cfg.StopBits)
	if cfg.Parity == config.ParityEven || cfg.Parity == config.ParityOdd {
		bits++
	}
	u.idleGap = core.TimerFromUS(4 * bits * 1000000 / uint32(cfg.Baud))

	u.Bus.UARTICR.Set(0x7FF)
	for !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE) {
		_ = u.Bus.UARTDR.Get()
	}
	u.Bus.UARTRSR.Set(0)

	u.Bus.UARTCR.Set(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)
	u.Bus.UARTIMSC.Set(rp.UART0_UARTIMSC_RXIM)
	return nil
}

// EnableTxInterrupt raises an interrupt whenever the holding register
// empties. The handler must call ClearTxInterrupt when it has nothing to send.
func (u *PL011) EnableTxInterrupt() {
	u.Bus.UARTIMSC.SetBits(rp.UART0_UARTIMSC_TXIM)
}

// setBaudRate programs the divisors and latches them with an LCR_H write
func (u *PL011) setBaudRate(br uint32) {
	u.baudRate = br
	div := 8 * machine.CPUFrequency() / br

	ibrd := div >> 7
	var fbrd uint32
	switch {
	case ibrd == 0:
		ibrd = 1
		fbrd = 0
	case ibrd >= 65535:
		ibrd = 65535
		fbrd = 0
	default:
		fbrd = ((div & 0x7f) + 1) / 2
	}

	u.Bus.UARTIBRD.Set(ibrd)
	u.Bus.UARTFBRD.Set(fbrd)
	u.Bus.UARTLCR_H.Set(u.Bus.UARTLCR_H.Get())
}

func (u *PL011) reset() {
	var resetVal uint32
	switch {
	case u.Bus == rp.UART0:
		resetVal = rp.RESETS_RESET_UART0
	case u.Bus == rp.UART1:
		resetVal = rp.RESETS_RESET_UART1
	}

	rp.RESETS.RESET.SetBits(resetVal)
	rp.RESETS.RESET.ClearBits(resetVal)
	for !rp.RESETS.RESET_DONE.HasBits(resetVal) {
	}
}

// ioCtrl returns the GPIOx_CTRL register; CTRL registers are 8 bytes apart
func ioCtrl(pin machine.Pin) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Add(unsafe.Pointer(&rp.IO_BANK0.GPIO0_CTRL), uintptr(pin)*8))
}

// IsLineIdle reports a gap longer than idleGap before the byte now waiting.
// It fires at most once per gap.
func (u *PL011) IsLineIdle() bool {
	if !u.rxSeen {
		return false
	}
	if core.GetTime()-u.lastRX < u.idleGap {
		return false
	}
	u.rxSeen = false
	return true
}

func (u *PL011) IsTransmitReady() bool {
	return !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_TXFF)
}

func (u *PL011) IsReceiveReady() bool {
	return !u.Bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE)
}

// ReadByte pops the holding register. Reading DR clears the byte's error
// flags; the sticky copies in RSR are cleared too.
func (u *PL011) ReadByte() (byte, error) {
	if !u.IsReceiveReady() {
		return 0, core.ErrNotReady
	}
	r := u.Bus.UARTDR.Get()
	u.lastRX = core.GetTime()
	u.rxSeen = true
	if r&(rp.UART0_UARTDR_OE|rp.UART0_UARTDR_BE|rp.UART0_UARTDR_PE|rp.UART0_UARTDR_FE) != 0 {
		u.Bus.UARTRSR.Set(0)
		return 0, errLine
	}
	return byte(r), nil
}

func (u *PL011) WriteByte(c byte) error {
	if !u.IsTransmitReady() {
		return core.ErrNotReady
	}
	u.Bus.UARTDR.Set(uint32(c))
	return nil
}

// ClearTxInterrupt acknowledges a transmit interrupt that had nothing to send
func (u *PL011) ClearTxInterrupt() {
	u.Bus.UARTICR.Set(rp.UART0_UARTICR_TXIC)
}
