package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Parity names accepted in UART sections
const (
	ParityNone = "none"
	ParityEven = "even"
	ParityOdd  = "odd"
)

// UARTConfig describes one serial line
type UARTConfig struct {
	Device   string `json:"device,omitempty"` // Host side only, e.g. "/dev/ttyUSB0"
	Baud     int    `json:"baud"`
	Parity   string `json:"parity"`
	StopBits int    `json:"stop_bits"`
	Invert   bool   `json:"invert"`
	TXPin    int    `json:"tx_pin"`
	RXPin    int    `json:"rx_pin"`
}

// Config is the receiver firmware and host tool configuration
type Config struct {
	Sbus    UARTConfig `json:"sbus"`
	Console UARTConfig `json:"console"`

	ConsoleQueueSize int `json:"console_queue_size"` // Outbound console bytes buffered
	LineCapacity     int `json:"line_capacity"`      // Editable line length

	ReportPeriodMs uint32 `json:"report_period_ms"` // 0 disables the channel report
	ReportChannels int    `json:"report_channels"`  // Channels printed per report
	LinkTimeoutMs  uint32 `json:"link_timeout_ms"`
	StatusLEDPin   int    `json:"status_led_pin"` // WS2812 data pin, -1 for none
}

// LoadConfig parses a JSON configuration and fills in missing values
func LoadConfig(jsonData []byte) (*Config, error) {
	var config Config

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// LoadFile reads and parses a configuration file
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(config *Config) {
	// SBUS: 100000 baud 8E2, inverted
	if config.Sbus.Baud == 0 {
		config.Sbus.Baud = 100000
		config.Sbus.Invert = true
	}
	if config.Sbus.Parity == "" {
		config.Sbus.Parity = ParityEven
	}
	if config.Sbus.StopBits == 0 {
		config.Sbus.StopBits = 2
	}

	// Console: 19200 8E2
	if config.Console.Baud == 0 {
		config.Console.Baud = 19200
	}
	if config.Console.Parity == "" {
		config.Console.Parity = ParityEven
	}
	if config.Console.StopBits == 0 {
		config.Console.StopBits = 2
	}

	if config.ConsoleQueueSize == 0 {
		config.ConsoleQueueSize = 64
	}
	if config.LineCapacity == 0 {
		config.LineCapacity = 100
	}
	if config.ReportChannels == 0 {
		config.ReportChannels = 2
	}
	if config.LinkTimeoutMs == 0 {
		config.LinkTimeoutMs = 100
	}
}

// Validate rejects values the UART drivers cannot apply
func (c *Config) Validate() error {
	for _, u := range []struct {
		name string
		cfg  UARTConfig
	}{{"sbus", c.Sbus}, {"console", c.Console}} {
		switch u.cfg.Parity {
		case ParityNone, ParityEven, ParityOdd:
		default:
			return fmt.Errorf("%s: unknown parity %q", u.name, u.cfg.Parity)
		}
		if u.cfg.StopBits != 1 && u.cfg.StopBits != 2 {
			return fmt.Errorf("%s: stop bits must be 1 or 2, got %d", u.name, u.cfg.StopBits)
		}
		if u.cfg.Baud < 0 {
			return fmt.Errorf("%s: invalid baud %d", u.name, u.cfg.Baud)
		}
	}
	if c.ConsoleQueueSize < 0 || c.LineCapacity < 0 {
		return fmt.Errorf("queue and line capacities must be positive")
	}
	if c.ReportChannels < 0 || c.ReportChannels > 16 {
		return fmt.Errorf("report_channels must be 1..16, got %d", c.ReportChannels)
	}
	return nil
}

// DefaultConfig returns the configuration built into the firmware:
// SBUS on UART0 RX GPIO1, console on UART1 GPIO4/5, LED on GPIO16
func DefaultConfig() *Config {
	return &Config{
		Sbus: UARTConfig{
			Baud:     100000,
			Parity:   ParityEven,
			StopBits: 2,
			Invert:   true,
			TXPin:    0,
			RXPin:    1,
		},
		Console: UARTConfig{
			Baud:     19200,
			Parity:   ParityEven,
			StopBits: 2,
			TXPin:    4,
			RXPin:    5,
		},
		ConsoleQueueSize: 64,
		LineCapacity:     100,
		ReportPeriodMs:   500,
		ReportChannels:   2,
		LinkTimeoutMs:    100,
		StatusLEDPin:     16,
	}
}
