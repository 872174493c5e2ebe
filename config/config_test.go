package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{}`))
	require.NoError(t, err)

	require.Equal(t, 100000, cfg.Sbus.Baud)
	require.True(t, cfg.Sbus.Invert)
	require.Equal(t, ParityEven, cfg.Sbus.Parity)
	require.Equal(t, 2, cfg.Sbus.StopBits)
	require.Equal(t, 19200, cfg.Console.Baud)
	require.False(t, cfg.Console.Invert)
	require.Equal(t, 64, cfg.ConsoleQueueSize)
	require.Equal(t, 100, cfg.LineCapacity)
	require.Equal(t, uint32(100), cfg.LinkTimeoutMs)
	require.Equal(t, 2, cfg.ReportChannels)
}

func TestLoadConfigKeepsOverrides(t *testing.T) {
	cfg, err := LoadConfig([]byte(`{
		"sbus": {"device": "/dev/ttyUSB1", "baud": 100000, "invert": false},
		"console": {"baud": 115200, "parity": "none", "stop_bits": 1},
		"line_capacity": 32,
		"report_period_ms": 250,
		"report_channels": 4
	}`))
	require.NoError(t, err)

	require.Equal(t, "/dev/ttyUSB1", cfg.Sbus.Device)
	require.False(t, cfg.Sbus.Invert)
	require.Equal(t, 115200, cfg.Console.Baud)
	require.Equal(t, ParityNone, cfg.Console.Parity)
	require.Equal(t, 1, cfg.Console.StopBits)
	require.Equal(t, 32, cfg.LineCapacity)
	require.Equal(t, uint32(250), cfg.ReportPeriodMs)
	require.Equal(t, 4, cfg.ReportChannels)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"syntax", `{"sbus": `},
		{"parity", `{"console": {"parity": "mark"}}`},
		{"stop bits", `{"sbus": {"stop_bits": 3}}`},
		{"channels", `{"report_channels": 17}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig([]byte(tt.json))
			require.Error(t, err)
		})
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 100000, cfg.Sbus.Baud)
	require.Equal(t, 16, cfg.StatusLEDPin)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rc.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"link_timeout_ms": 250}`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, uint32(250), cfg.LinkTimeoutMs)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
