package main

import (
	"flag"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"

	"rcfirm/config"
)

var (
	configFile    = flag.String("config", "", "JSON configuration file")
	sbusDevice    = flag.String("sbus", "", "SBUS adapter device (overrides config)")
	consoleDevice = flag.String("console", "", "Device console serial port (overrides config)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg := config.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = config.LoadFile(*configFile); err != nil {
			glog.Exitln(err)
		}
	}
	if *sbusDevice != "" {
		cfg.Sbus.Device = *sbusDevice
	}
	if *consoleDevice != "" {
		cfg.Console.Device = *consoleDevice
	}

	t := &Tool{
		Config: cfg,
		Shell:  ishell.New(),
	}
	defer t.Close()
	t.Shell.Set(toolKey, t)
	t.Shell.SetPrompt("rcmon > ")
	for _, cmd := range commands {
		t.Shell.AddCmd(cmd)
	}

	if args := flag.Args(); len(args) > 0 {
		if err := t.Shell.Process(args...); err != nil {
			t.Close()
			glog.Exitln(err)
		}
		return
	}
	t.Shell.Run()
}
