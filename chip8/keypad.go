package chip8

import "sync"

// keypad is the 16-key hex keypad. The presentation layer is the sole
// writer, the instruction executor the sole reader, typically from
// different goroutines.
type keypad struct {
	mu   sync.Mutex
	down [16]bool
}

func (k *keypad) set(key uint8, pressed bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.down[key&0x0F] = pressed
}

func (k *keypad) pressed(key uint8) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.down[key&0x0F]
}

// firstDown returns the lowest-numbered key currently held, for the
// wait-for-key instruction.
func (k *keypad) firstDown() (uint8, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i, d := range k.down {
		if d {
			return uint8(i), true
		}
	}
	return 0, false
}
