package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want byte
	}{
		{"home", 0x01},
		{"LEFT", 0x02},
		{"end", 0x05},
		{"right", 0x06},
		{"bs", 0x08},
		{"kill", 0x0B},
		{"del", 0x7F},
		{"^a", 0x01},
		{"^K", 0x0B},
	}
	for _, tt := range tests {
		c, err := KeyCode(tt.name)
		require.NoError(t, err, tt.name)
		require.Equal(t, tt.want, c, tt.name)
	}

	_, err := KeyCode("enter")
	require.Error(t, err)
	require.Contains(t, KeyNames(), "backspace")
}

func TestParseScript(t *testing.T) {
	script := `
# edit a command
type "abcd"
key left left
type _
sleep 10ms
key 'del'   # trailing comment
`
	steps, err := ParseScript(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, steps, 5)

	require.Equal(t, []byte("abcd"), steps[0].Data)
	require.Equal(t, []byte{0x02, 0x02}, steps[1].Data)
	require.Equal(t, []byte("_"), steps[2].Data)
	require.Equal(t, 10*time.Millisecond, steps[3].Pause)
	require.Nil(t, steps[3].Data)
	require.Equal(t, []byte{0x7F}, steps[4].Data)
	require.Equal(t, 7, steps[4].Line)
}

func TestParseScriptTypeJoinsWords(t *testing.T) {
	steps, err := ParseScript(strings.NewReader(`type load from "my file"`))
	require.NoError(t, err)
	require.Equal(t, "load from my file", string(steps[0].Data))
}

func TestParseScriptErrors(t *testing.T) {
	tests := map[string]string{
		"unknown command": "press a",
		"unknown key":     "key tab",
		"bad duration":    "sleep soon",
		"sleep arity":     "sleep",
		"unterminated":    `type "abc`,
		"non-ascii":       "type café",
	}
	for name, script := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(script))
			require.Error(t, err)
		})
	}
}

func TestPlay(t *testing.T) {
	steps := []Step{
		{Line: 1, Data: []byte("ab")},
		{Line: 2, Pause: time.Millisecond},
		{Line: 3, Data: []byte{0x08}},
	}
	var out bytes.Buffer
	require.NoError(t, Play(context.Background(), &out, steps, 0))
	require.Equal(t, []byte("ab\x08"), out.Bytes())
}

func TestPlayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := Play(ctx, &out, []Step{{Data: []byte("xyz")}}, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, "x", out.String())
}
