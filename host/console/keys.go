// Package console drives the firmware's serial console from the host:
// named editing keys and replayable keystroke scripts.
package console

import (
	"fmt"
	"sort"
	"strings"
)

// Editing keys understood by the firmware line editor
var keyCodes = map[string]byte{
	"home":      0x01,
	"left":      0x02,
	"end":       0x05,
	"right":     0x06,
	"backspace": 0x08,
	"bs":        0x08,
	"kill":      0x0B,
	"delete":    0x7F,
	"del":       0x7F,
}

// KeyCode returns the control byte for a key name. Names are case
// insensitive and "^A" style control notation is accepted too.
func KeyCode(name string) (byte, error) {
	name = strings.ToLower(name)
	if c, ok := keyCodes[name]; ok {
		return c, nil
	}
	if len(name) == 2 && name[0] == '^' && name[1] >= 'a' && name[1] <= 'z' {
		return name[1] - 'a' + 1, nil
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// KeyNames lists the named keys in sorted order
func KeyNames() []string {
	names := make([]string, 0, len(keyCodes))
	for name := range keyCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Keys converts a list of key names into the bytes to send
func Keys(names []string) ([]byte, error) {
	out := make([]byte, 0, len(names))
	for _, name := range names {
		c, err := KeyCode(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
