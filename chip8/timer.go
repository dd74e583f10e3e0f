package chip8

import "sync"

// timers holds the delay and sound countdown counters. The tick clock
// usually runs on a different goroutine than the instruction loop, so the
// counters sit behind a mutex: a read concurrent with a tick sees either the
// pre- or post-tick value, never a torn one.
type timers struct {
	mu    sync.Mutex
	delay uint8
	sound uint8
}

// tick decrements both counters by one, saturating at zero. It is meant to
// be called at TimerHz regardless of instruction throughput.
func (t *timers) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
	}
}

func (t *timers) setDelay(v uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay = v
}

func (t *timers) getDelay() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

func (t *timers) setSound(v uint8) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sound = v
}

func (t *timers) soundActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sound > 0
}

func (t *timers) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.delay = 0
	t.sound = 0
}
