package hook

import (
	"fmt"
	"strconv"
	"strings"
)

// Windows virtual key codes that the overlay cares about directly.
const (
	RawEscape  uint16 = 27
	RawEnter   uint16 = 13
	RawLAlt    uint16 = 164
	RawRAlt    uint16 = 165
	RawLShift  uint16 = 160
	RawRShift  uint16 = 161
	RawLCtrl   uint16 = 162
	RawRCtrl   uint16 = 163
)

// Portable scan codes reported by the hook library for Alt.
const (
	keycodeAltL = 0x0038
	keycodeAltR = 0x0E38
)

var altRawcodes = []uint16{RawLAlt, RawRAlt, 18}

var namedRawcodes = map[string][]uint16{
	"ctrl":      {RawLCtrl, RawRCtrl},
	"alt":       {RawLAlt, RawRAlt},
	"shift":     {RawLShift, RawRShift},
	"cmd":       {91, 92},
	"space":     {32},
	"enter":     {RawEnter},
	"esc":       {RawEscape},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pagedown":  {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
	"prtsc":     {44},
}

var keyAliases = map[string]string{
	"control":     "ctrl",
	"win":         "cmd",
	"super":       "cmd",
	"return":      "enter",
	"escape":      "esc",
	"del":         "delete",
	"ins":         "insert",
	"pgup":        "pageup",
	"pgdn":        "pagedown",
	"printscreen": "prtsc",
}

// NormalizeKeyName lower-cases name and resolves aliases such as "win" or
// "escape".
func NormalizeKeyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := keyAliases[name]; ok {
		return alias
	}
	return name
}

// KeyRawcodes maps a key name to the virtual key codes that produce it.
// Modifiers yield both their left and right variants.
func KeyRawcodes(name string) []uint16 {
	name = NormalizeKeyName(name)
	if codes, ok := namedRawcodes[name]; ok {
		return codes
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return []uint16{uint16(c-'a') + 65}
		case c >= '0' && c <= '9':
			return []uint16{uint16(c-'0') + 48}
		}
	}
	if strings.HasPrefix(name, "f") {
		if n, err := strconv.Atoi(name[1:]); err == nil && n >= 1 && n <= 24 {
			return []uint16{uint16(111 + n)}
		}
	}
	return nil
}

// Combo is a parsed key combination such as "Ctrl+Alt+R".
type Combo struct {
	Names    []string
	Rawcodes [][]uint16
}

// ParseCombo parses a "+"-separated key combination.
func ParseCombo(s string) (Combo, error) {
	var c Combo
	for _, part := range strings.Split(s, "+") {
		name := NormalizeKeyName(part)
		if name == "" {
			return Combo{}, fmt.Errorf("hotkey %q: empty key name", s)
		}
		codes := KeyRawcodes(name)
		if len(codes) == 0 {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", s, name)
		}
		c.Names = append(c.Names, name)
		c.Rawcodes = append(c.Rawcodes, codes)
	}
	return c, nil
}

func (c Combo) String() string { return strings.Join(c.Names, "+") }

// Index returns the position of rawcode in the combination, or -1.
func (c Combo) Index(rawcode uint16) int {
	for i, codes := range c.Rawcodes {
		for _, rc := range codes {
			if rc == rawcode {
				return i
			}
		}
	}
	return -1
}
