package emulator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"

	"github.com/hachivm/hachi/chip8"
	"github.com/hachivm/hachi/display"
)

// fakeDriver is a headless display.Driver with injectable events.
type fakeDriver struct {
	mu      sync.Mutex
	frames  int
	pending []display.Event
	tone    bool
	closed  bool
}

func (d *fakeDriver) Init() error { return nil }

func (d *fakeDriver) Render(fb []uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frames++
	return nil
}

func (d *fakeDriver) PollEvents() []display.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	evs := d.pending
	d.pending = nil
	return evs
}

func (d *fakeDriver) SetTone(active bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tone = active
}

func (d *fakeDriver) Name() string { return "fake" }

func (d *fakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDriver) inject(evs ...display.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, evs...)
}

func newTestEmulator(t *testing.T, program []byte, drv display.Driver, cfg Config) *Emulator {
	t.Helper()
	vm := chip8.New()
	assert.NoError(t, vm.LoadProgram(program))
	return New(vm, drv, log.NewTestLogger(t), cfg)
}

func TestRunStopsOnQuitEvent(t *testing.T) {
	drv := &fakeDriver{}
	drv.inject(display.QuitEvent{})

	e := newTestEmulator(t, []byte{0x12, 0x00}, drv, Config{CPUHz: 2000})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on quit event")
	}
	assert.True(t, drv.closed)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	drv := &fakeDriver{}
	e := newTestEmulator(t, []byte{0x12, 0x00}, drv, Config{CPUHz: 2000})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancellation")
	}
}

func TestRunReturnsFatalFault(t *testing.T) {
	// RET with an empty call stack is a fatal stack underflow.
	drv := &fakeDriver{}
	e := newTestEmulator(t, []byte{0x00, 0xEE}, drv, Config{CPUHz: 2000})

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, chip8.ErrStackUnderflow)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not surface the fault")
	}
}

func TestIllegalOpcodeHaltsGracefully(t *testing.T) {
	e := newTestEmulator(t, []byte{0x01, 0x23}, &fakeDriver{}, Config{})

	// The step itself reports no error, but the machine pauses with its
	// last consistent state intact.
	assert.NoError(t, e.step())
	assert.True(t, e.paused)
	assert.Equal(t, uint16(chip8.ProgramOffset), e.vm.PC())
}

func TestHandleEventsKeyAndControl(t *testing.T) {
	drv := &fakeDriver{}
	e := newTestEmulator(t, []byte{0xE0, 0x9E}, drv, Config{})

	drv.inject(display.KeyEvent{Key: 0x0, Pressed: true})
	assert.False(t, e.handleEvents())

	// V0 is zero, so EX9E skips only if key 0 is down.
	assert.NoError(t, e.vm.Step())
	assert.Equal(t, uint16(chip8.ProgramOffset+4), e.vm.PC())

	drv.inject(display.PauseEvent{})
	e.handleEvents()
	assert.True(t, e.paused)

	drv.inject(display.ResetEvent{})
	e.handleEvents()
	assert.Equal(t, uint16(chip8.ProgramOffset), e.vm.PC())

	drv.inject(display.QuitEvent{})
	assert.True(t, e.handleEvents())
}

func TestStepEventSingleSteps(t *testing.T) {
	drv := &fakeDriver{}
	e := newTestEmulator(t, []byte{0x60, 0x42, 0x61, 0x43}, drv, Config{StartPaused: true})

	drv.inject(display.StepEvent{})
	e.handleEvents()
	assert.Equal(t, uint16(chip8.ProgramOffset+2), e.vm.PC())
	assert.True(t, e.paused)

	// On a running machine a step event pauses instead.
	e.paused = false
	drv.inject(display.StepEvent{})
	e.handleEvents()
	assert.True(t, e.paused)
	assert.Equal(t, uint16(chip8.ProgramOffset+2), e.vm.PC())
}

func TestRendersOnDraw(t *testing.T) {
	// CLS then spin; the clear marks the display dirty, so the timer
	// branch must render a second frame after the initial one.
	drv := &fakeDriver{}
	e := newTestEmulator(t, []byte{0x00, 0xE0, 0x12, 0x02}, drv, Config{CPUHz: 2000, TimerHz: 120})

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	assert.NoError(t, e.Run(ctx))

	drv.mu.Lock()
	defer drv.mu.Unlock()
	assert.GreaterOrEqual(t, drv.frames, 2)
}

func TestConfigDefaults(t *testing.T) {
	e := New(chip8.New(), &fakeDriver{}, log.NewTestLogger(t), Config{})
	assert.Equal(t, DefaultCPUHz, e.cfg.CPUHz)
	assert.Equal(t, DefaultTimerHz, e.cfg.TimerHz)
}
