// Package chip8 implements a CHIP-8 virtual machine: 4 KiB of memory,
// sixteen 8-bit registers, a 16-entry call stack, two 60 Hz countdown
// timers, a 64x32 XOR-drawn framebuffer and a 16-key keypad.
//
// The package contains no clock and no presentation code. The driving loop
// calls Step at its chosen instruction rate and TickTimers at a fixed rate,
// reads the framebuffer after draws and feeds keypad state in. Step and
// TickTimers may be called from the same goroutine or serialized by the
// caller; the timer and keypad accessors are safe to use concurrently with
// Step.
package chip8

import (
	"math/rand"
	"time"
)

const (
	DisplayW   = 64
	DisplayH   = 32
	MemorySize = 4096

	// ProgramOffset is where program images load; everything below is
	// reserved for interpreter data.
	ProgramOffset = 0x200

	fontOffset     = 0x100
	fontGlyphBytes = 5

	stackDepth = 16
)

// fontSprites are the built-in 4x5 glyphs for hex digits 0-F, referenced by
// the LD F, Vx instruction.
var fontSprites = []uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// VM is one CHIP-8 machine instance.
type VM struct {
	mem   memory
	v     [16]uint8 // VF doubles as the carry/borrow/collision flag
	i     uint16
	pc    uint16
	sp    uint8 // number of stack entries in use
	stack [stackDepth]uint16

	timers timers
	fb     framebuffer
	keys   keypad

	rng *rand.Rand
}

// Option configures a VM at construction time.
type Option func(*VM)

// WithRandSource replaces the pseudo-random source used by the RND
// instruction, so tests can run deterministically.
func WithRandSource(src rand.Source) Option {
	return func(m *VM) {
		m.rng = rand.New(src)
	}
}

// New returns a machine with the font loaded and the program counter at
// ProgramOffset. Load a program with LoadProgram before stepping.
func New(opts ...Option) *VM {
	m := &VM{
		pc:  ProgramOffset,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	copy(m.mem[fontOffset:], fontSprites)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoadProgram copies a raw program image into memory at ProgramOffset.
// The image carries no header or metadata.
func (m *VM) LoadProgram(p []byte) error {
	if len(p) > MemorySize-ProgramOffset {
		return ErrInvalidProgramImage
	}
	copy(m.mem[ProgramOffset:], p)
	return nil
}

// Reset restores registers, stack, timers and the display to their initial
// state. Memory is left untouched, so the loaded program restarts from
// ProgramOffset.
func (m *VM) Reset() {
	m.v = [16]uint8{}
	m.i = 0
	m.pc = ProgramOffset
	m.sp = 0
	m.stack = [stackDepth]uint16{}
	m.timers.reset()
	m.fb.clear()
}

// Step performs one fetch-decode-execute cycle. On failure the machine
// state is unchanged and the returned *Fault carries the program counter
// and the raw opcode; the caller decides whether to halt or resume.
func (m *VM) Step() error {
	op, err := m.mem.readWord(m.pc)
	if err != nil {
		return &Fault{PC: m.pc, Err: ErrOutOfBounds}
	}
	if err := m.exec(op); err != nil {
		return &Fault{PC: m.pc, Opcode: op, Err: err}
	}
	return nil
}

// TickTimers decrements both countdown timers, saturating at zero. Call it
// at a fixed real-time rate (canonically 60 Hz) independent of Step.
func (m *VM) TickTimers() {
	m.timers.tick()
}

// SoundActive reports whether the sound timer is above zero. This is the
// whole audio contract: a single boolean, no waveform.
func (m *VM) SoundActive() bool {
	return m.timers.soundActive()
}

// SetKey records a keypad key as pressed or released. Safe to call from an
// input goroutine concurrently with Step.
func (m *VM) SetKey(key uint8, pressed bool) {
	m.keys.set(key, pressed)
}

// Framebuffer returns a row-major copy of the 64x32 pixel grid, one byte
// per pixel, nonzero meaning lit.
func (m *VM) Framebuffer() []uint8 {
	return m.fb.snapshot()
}

// Redraw reports whether the display changed since the last ClearRedraw.
func (m *VM) Redraw() bool {
	return m.fb.redraw
}

// ClearRedraw is called by the consumer after it has rendered a frame.
func (m *VM) ClearRedraw() {
	m.fb.redraw = false
}

// PC returns the current program counter.
func (m *VM) PC() uint16 {
	return m.pc
}

// ReadWord reads the big-endian word at addr, for tracing and disassembly.
func (m *VM) ReadWord(addr uint16) (uint16, error) {
	return m.mem.readWord(addr)
}
