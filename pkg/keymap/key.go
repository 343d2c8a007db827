package keymap

import (
	"fmt"
	"strings"
)

// Key is a single keyboard press with its modifiers.
// Name is either a printable character ("7", "s", "^") or a named key
// ("Enter", "Escape", "Backspace").
type Key struct {
	Name  string `json:"name"`
	Shift bool   `json:"shift,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
}

var namedKeys = map[string]string{
	"enter":     "Enter",
	"return":    "Enter",
	"escape":    "Escape",
	"esc":       "Escape",
	"backspace": "Backspace",
	"delete":    "Delete",
	"tab":       "Tab",
	"space":     "Space",
}

// ParseKey reads a descriptor such as "Ctrl+Shift+M", "Shift+^" or "Enter".
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "+")
	// "+" itself and "Shift++" keep a trailing empty part.
	if strings.HasSuffix(s, "+") {
		parts = append(parts[:len(parts)-2], "+")
	}

	var k Key
	for i, p := range parts {
		if i == len(parts)-1 {
			k.Name = p
			break
		}
		switch strings.ToLower(p) {
		case "shift":
			k.Shift = true
		case "ctrl", "control":
			k.Ctrl = true
		case "meta", "alt", "cmd":
			k.Meta = true
		default:
			return Key{}, fmt.Errorf("unknown modifier %q in %q", p, s)
		}
	}
	if k.Name == "" {
		return Key{}, fmt.Errorf("empty key in %q", s)
	}
	return k.normalize(), nil
}

// normalize folds letter case and named key spellings so lookups are exact.
func (k Key) normalize() Key {
	if named, ok := namedKeys[strings.ToLower(k.Name)]; ok {
		k.Name = named
		return k
	}
	if len(k.Name) == 1 {
		c := k.Name[0]
		if c >= 'A' && c <= 'Z' {
			k.Name = string(c + 'a' - 'A')
		}
	}
	return k
}

func (k Key) String() string {
	var b strings.Builder
	if k.Ctrl {
		b.WriteString("Ctrl+")
	}
	if k.Meta {
		b.WriteString("Meta+")
	}
	if k.Shift {
		b.WriteString("Shift+")
	}
	name := k.Name
	if len(name) == 1 && k.Ctrl && name[0] >= 'a' && name[0] <= 'z' {
		name = strings.ToUpper(name)
	}
	b.WriteString(name)
	return b.String()
}
