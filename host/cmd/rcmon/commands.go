package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"rcfirm/core"
	"rcfirm/host/console"
	"rcfirm/host/monitor"
	"rcfirm/host/serial"
	"rcfirm/protocol"
)

var (
	commands = []*ishell.Cmd{
		&SbusCmd,
		&TypeCmd,
		&KeyCmd,
		&ReplayCmd,
	}

	// SbusCmd prints decoded frames from the SBUS adapter.
	SbusCmd = ishell.Cmd{
		Name:    "sbus",
		Aliases: []string{"s"},
		Help:    "[SECONDS] [CHANNELS]",
		Func: func(c *ishell.Context) {
			t := ToolFrom(c)
			duration := 5 * time.Second
			channels := t.Config.ReportChannels
			if len(c.Args) > 0 {
				secs, err := strconv.ParseFloat(c.Args[0], 64)
				if err != nil {
					c.Err(fmt.Errorf("Invalid SECONDS: %v", err))
					return
				}
				duration = time.Duration(secs * float64(time.Second))
			}
			if len(c.Args) > 1 {
				n, err := strconv.Atoi(c.Args[1])
				if err != nil || n < 1 || n > protocol.NumChannels {
					c.Err(fmt.Errorf("CHANNELS must be 1..%d", protocol.NumChannels))
					return
				}
				channels = n
			}

			cfg, err := portConfig(t.Config.Sbus, 2)
			if err != nil {
				c.Err(fmt.Errorf("sbus: %w", err))
				return
			}
			port, err := serial.Open(cfg)
			if err != nil {
				c.Err(err)
				return
			}
			defer port.Close()
			glog.V(1).Infof("sbus open on %s at %d baud (%s driver)", cfg.Device, cfg.Baud, cfg.Driver())

			out := protocol.NewScratchOutput()
			mon := monitor.New(port, func(f protocol.Frame) {
				out.Reset()
				core.FormatChannels(out, f, channels)
				c.Print(string(out.Result()))
			})
			ctx, cancel := context.WithTimeout(context.Background(), duration)
			defer cancel()
			if err := mon.Run(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				c.Err(err)
			}

			stats := mon.Stats()
			c.Printf("frames=%d bad_end=%d idle_resets=%d skipped=%d\n",
				stats.Frames, stats.BadEnd, stats.IdleResets, stats.SyncSkipped)
		},
	}

	// TypeCmd sends text to the device console.
	TypeCmd = ishell.Cmd{
		Name:    "type",
		Aliases: []string{"t"},
		Help:    "TEXT...",
		Func: func(c *ishell.Context) {
			text := strings.Join(c.Args, " ")
			if err := ToolFrom(c).SendKeys(c, []byte(text)); err != nil {
				c.Err(err)
			}
		},
	}

	// KeyCmd sends named editing keys to the device console.
	KeyCmd = ishell.Cmd{
		Name:    "key",
		Aliases: []string{"k"},
		Help:    "NAME... (" + strings.Join(console.KeyNames(), ", ") + ", ^X)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			data, err := console.Keys(c.Args)
			if err != nil {
				c.Err(err)
				return
			}
			if err := ToolFrom(c).SendKeys(c, data); err != nil {
				c.Err(err)
			}
		},
	}

	// ReplayCmd plays a keystroke script to the device console.
	ReplayCmd = ishell.Cmd{
		Name:    "replay",
		Aliases: []string{"r"},
		Help:    "FILE [CHAR_DELAY_MS]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			charDelay := 2 * time.Millisecond
			if len(c.Args) > 1 {
				ms, err := strconv.Atoi(c.Args[1])
				if err != nil {
					c.Err(fmt.Errorf("Invalid CHAR_DELAY_MS: %v", err))
					return
				}
				charDelay = time.Duration(ms) * time.Millisecond
			}

			f, err := os.Open(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			steps, err := console.ParseScript(f)
			f.Close()
			if err != nil {
				c.Err(err)
				return
			}

			t := ToolFrom(c)
			port, err := t.Console()
			if err != nil {
				c.Err(err)
				return
			}
			glog.Infof("replaying %d steps from %s", len(steps), c.Args[0])
			if err := console.Play(context.Background(), port, steps, charDelay); err != nil {
				c.Err(err)
				return
			}
			echo, err := readEcho(port, time.Second)
			if err != nil {
				c.Err(err)
				return
			}
			c.Println(showLine(echo))
		},
	}
)
