package display

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"unicode"
)

// Keymap maps a host keyboard rune to a CHIP-8 keypad key (0x0-0xF).
type Keymap map[rune]uint8

// DefaultKeymap returns the conventional mapping of the 4x4 hex keypad onto
// the left-hand block of a QWERTY keyboard:
//
//	1 2 3 4        1 2 3 C
//	q w e r   ->   4 5 6 D
//	a s d f        7 8 9 E
//	z x c v        A 0 B F
func DefaultKeymap() Keymap {
	return Keymap{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	}
}

// LoadKeymap reads key bindings from a JSON file mapping single host
// characters to hex keypad digits, e.g. {"q": "4", "w": "5"}.
func LoadKeymap(path string) (Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key bindings: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing key bindings: %w", err)
	}

	km := make(Keymap, len(raw))
	for host, pad := range raw {
		runes := []rune(host)
		if len(runes) != 1 {
			return nil, fmt.Errorf("key binding %q: host key must be a single character", host)
		}
		v, err := strconv.ParseUint(pad, 16, 8)
		if err != nil || v > 0xF {
			return nil, fmt.Errorf("key binding %q: %q is not a keypad digit 0-F", host, pad)
		}
		km[unicode.ToLower(runes[0])] = uint8(v)
	}
	return km, nil
}
