package chip8

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimersSaturateAtZero(t *testing.T) {
	var tm timers
	tm.setDelay(2)
	tm.setSound(1)

	tm.tick()
	assert.Equal(t, uint8(1), tm.getDelay())
	assert.False(t, tm.soundActive())

	// Ticking past zero never underflows.
	for i := 0; i < 10; i++ {
		tm.tick()
	}
	assert.Equal(t, uint8(0), tm.getDelay())
	assert.False(t, tm.soundActive())
}

func TestSoundActiveWhileCounting(t *testing.T) {
	var tm timers
	tm.setSound(3)
	for i := 0; i < 3; i++ {
		assert.True(t, tm.soundActive())
		tm.tick()
	}
	assert.False(t, tm.soundActive())
}

// Ticking from one goroutine while reading from another must never tear;
// run under -race.
func TestTimersConcurrentAccess(t *testing.T) {
	var tm timers
	tm.setDelay(255)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 255; i++ {
			tm.tick()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 255; i++ {
			_ = tm.getDelay()
			_ = tm.soundActive()
		}
	}()
	wg.Wait()

	assert.Equal(t, uint8(0), tm.getDelay())
}
