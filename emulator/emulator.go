// Package emulator is the driving loop: it owns the pacing that the chip8
// core deliberately leaves out. Instructions step at a configurable rate
// while the timers tick at a fixed rate on an independent ticker, so slow
// or fast programs never skew the timer clock.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrogolib/log"

	"github.com/hachivm/hachi/chip8"
	"github.com/hachivm/hachi/disasm"
	"github.com/hachivm/hachi/display"
)

const (
	// DefaultCPUHz is the default instruction rate. CHIP-8 has no
	// canonical clock speed; 8 instructions per timer tick plays most
	// programs at their intended feel.
	DefaultCPUHz = 480

	// DefaultTimerHz is the timer decrement rate programs were written
	// against. Changing it changes game speed in surprising ways.
	DefaultTimerHz = 60
)

// Config tunes the driving loop.
type Config struct {
	CPUHz       int  // instruction rate, DefaultCPUHz when zero
	TimerHz     int  // timer tick rate, DefaultTimerHz when zero
	Trace       bool // log every executed instruction at debug level
	StartPaused bool // begin in single-step mode
}

// Emulator couples one machine to one display driver.
type Emulator struct {
	vm     *chip8.VM
	drv    display.Driver
	logger *log.Logger
	cfg    Config

	paused bool
}

// New wires a machine to a driver. The driver is initialized by Run, not
// here, so constructing an Emulator acquires no resources.
func New(vm *chip8.VM, drv display.Driver, logger *log.Logger, cfg Config) *Emulator {
	if cfg.CPUHz <= 0 {
		cfg.CPUHz = DefaultCPUHz
	}
	if cfg.TimerHz <= 0 {
		cfg.TimerHz = DefaultTimerHz
	}
	return &Emulator{
		vm:     vm,
		drv:    drv,
		logger: logger,
		cfg:    cfg,
		paused: cfg.StartPaused,
	}
}

// Run drives the machine until the program faults fatally, the driver
// reports quit, or ctx is cancelled. Cancellation is honored between
// instructions, never mid-instruction.
func (e *Emulator) Run(ctx context.Context) error {
	if err := e.drv.Init(); err != nil {
		return fmt.Errorf("initializing %s driver: %w", e.drv.Name(), err)
	}
	defer e.drv.Close()

	stepTick := time.NewTicker(time.Second / time.Duration(e.cfg.CPUHz))
	defer stepTick.Stop()
	timerTick := time.NewTicker(time.Second / time.Duration(e.cfg.TimerHz))
	defer timerTick.Stop()

	// First frame, before the program draws anything.
	if err := e.drv.Render(e.vm.Framebuffer()); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-stepTick.C:
			if quit := e.handleEvents(); quit {
				return nil
			}
			if e.paused {
				continue
			}
			if err := e.step(); err != nil {
				return err
			}

		case <-timerTick.C:
			e.vm.TickTimers()
			e.drv.SetTone(e.vm.SoundActive())
			if err := e.renderIfNeeded(); err != nil {
				return err
			}
		}
	}
}

// step executes one instruction. Unrecognized opcodes halt the machine
// gracefully with its last consistent state on screen, since they usually
// mean the program targets an extended instruction set; everything else is
// fatal and propagated.
func (e *Emulator) step() error {
	if e.cfg.Trace {
		pc := e.vm.PC()
		if op, err := e.vm.ReadWord(pc); err == nil {
			e.logger.Debug("exec",
				log.Hex("pc", pc),
				log.String("op", disasm.Opcode(op)))
		}
	}

	err := e.vm.Step()
	if err == nil {
		return nil
	}
	if errors.Is(err, chip8.ErrIllegalInstruction) {
		e.logger.Error("halting on unrecognized opcode", log.Err(err))
		e.paused = true
		return nil
	}
	return err
}

func (e *Emulator) renderIfNeeded() error {
	if !e.vm.Redraw() {
		return nil
	}
	if err := e.drv.Render(e.vm.Framebuffer()); err != nil {
		return err
	}
	e.vm.ClearRedraw()
	return nil
}

// handleEvents applies pending driver events and reports whether the loop
// should exit.
func (e *Emulator) handleEvents() bool {
	for _, ev := range e.drv.PollEvents() {
		switch ev := ev.(type) {
		case display.KeyEvent:
			e.vm.SetKey(ev.Key, ev.Pressed)

		case display.QuitEvent:
			return true

		case display.ResetEvent:
			e.vm.Reset()
			e.logger.Info("machine reset")

		case display.PauseEvent:
			e.paused = !e.paused

		case display.StepEvent:
			if !e.paused {
				e.paused = true
				continue
			}
			if err := e.step(); err != nil {
				e.logger.Error("single step failed", log.Err(err))
			}
		}
	}
	return false
}
