//go:build rp2040 || rp2350

package main

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/interrupt"
	"strconv"
	"time"

	"rcfirm/config"
	"rcfirm/core"
	"rcfirm/protocol"
)

// NVIC priorities; lower is more urgent. SBUS must preempt the console.
const (
	sbusPriority    = 0x40
	consolePriority = 0x80
)

// consoleWriteTimeout bounds how long the main loop waits for the console
// queue to drain before dropping the rest of a line
const consoleWriteTimeout = 50 * time.Millisecond

var (
	sbusUART    = NewPL011(rp.UART0)
	consoleUART = NewPL011(rp.UART1)

	dispatcher *core.Dispatcher
	console    *core.SerialUI

	// Set by the link monitor, consumed by the main loop
	linkChanged bool
	linkState   core.LinkState

	// Debug counters
	faults        uint32
	consoleDrops  uint32
	framesPrinted uint32
)

func sbusISR(interrupt.Interrupt) {
	dispatcher.OnSbusInterrupt()
}

func consoleISR(interrupt.Interrupt) {
	dispatcher.OnConsoleInterrupt()
	if console.Pending() == 0 {
		consoleUART.ClearTxInterrupt()
	}
}

func main() {
	// Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		return
	}

	InitUSB()
	InitClock()

	cfg := config.DefaultConfig()

	if err := sbusUART.Configure(cfg.Sbus); err != nil {
		core.DebugPrintln("sbus uart: " + err.Error())
		return
	}
	if err := consoleUART.Configure(cfg.Console); err != nil {
		core.DebugPrintln("console uart: " + err.Error())
		return
	}
	core.SetTransceiver(core.UARTSbus, sbusUART)
	core.SetTransceiver(core.UARTConsole, consoleUART)

	console = core.NewSerialUI(core.MustTransceiver(core.UARTConsole), cfg.ConsoleQueueSize, cfg.LineCapacity)
	dispatcher = core.NewDispatcher(core.MustTransceiver(core.UARTSbus), console)

	sbusIRQ := interrupt.New(rp.IRQ_UART0_IRQ, sbusISR)
	sbusIRQ.SetPriority(sbusPriority)
	consoleIRQ := interrupt.New(rp.IRQ_UART1_IRQ, consoleISR)
	consoleIRQ.SetPriority(consolePriority)

	led := NewStatusLED(cfg.StatusLEDPin)
	led.Show(core.LinkLost)

	link := core.NewLinkMonitor(dispatcher, 20, cfg.LinkTimeoutMs, func(s core.LinkState) {
		linkState = s
		linkChanged = true
	})
	link.Start()

	var reporter *core.Reporter
	if cfg.ReportPeriodMs > 0 {
		reporter = core.NewReporter(dispatcher, cfg.ReportPeriodMs, cfg.ReportChannels)
	}

	sbusIRQ.Enable()
	consoleIRQ.Enable()
	consoleUART.EnableTxInterrupt()

	out := protocol.NewScratchOutput()
	out.OutputString("rcfirm " + protocol.Version + "\r\n")
	writeConsole(out.Result())

	var (
		prevLine   string
		prevCursor = -1
	)

	for {
		// Recover from panics in the main loop to keep the receiver running
		func() {
			defer func() {
				if r := recover(); r != nil {
					faults++
					dispatcher.DumpDiagnostics()
					core.DebugPrintln("faults=" + strconv.Itoa(int(faults)) +
						" drops=" + strconv.Itoa(int(consoleDrops)) +
						" reports=" + strconv.Itoa(int(framesPrinted)))
					prevCursor = -1
				}
			}()

			core.ProcessTimers()

			if linkChanged {
				linkChanged = false
				led.Show(linkState)
				core.DebugAsync("link " + linkState.String())
			}

			if reporter != nil {
				// Blank the edited line, then print the report over it
				out.Reset()
				core.RenderLine(out, "", 0, len(prevLine))
				out.OutputByte('\r')
				if reporter.Poll(out) {
					writeConsole(out.Result())
					framesPrinted++
					prevLine, prevCursor = "", -1
				}
			}

			line, cursor := dispatcher.ConsoleLine()
			if line != prevLine || cursor != prevCursor {
				out.Reset()
				core.RenderLine(out, line, cursor, len(prevLine))
				writeConsole(out.Result())
				prevLine, prevCursor = line, cursor
			}
		}()

		time.Sleep(100 * time.Microsecond)
	}
}

// writeConsole queues bytes for the console, yielding while the queue is
// full. Whatever is left after consoleWriteTimeout is dropped.
func writeConsole(data []byte) {
	deadline := time.Now().Add(consoleWriteTimeout)
	rest := string(data)
	for len(rest) > 0 {
		n, err := dispatcher.WriteConsole(rest)
		rest = rest[n:]
		if err == nil {
			return
		}
		if !errors.Is(err, core.ErrWouldBlock) || time.Now().After(deadline) {
			consoleDrops++
			return
		}
		time.Sleep(200 * time.Microsecond)
	}
}
