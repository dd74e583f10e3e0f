package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when an instruction touches an address
	// outside the 4 KiB address space.
	ErrOutOfBounds = errors.New("memory address out of bounds")

	// ErrIllegalInstruction is returned for opcode encodings that are not
	// part of the base instruction set. Programs written for extended
	// variants trip this rather than misbehaving silently.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrStackOverflow is returned when a CALL would exceed the 16-entry
	// call stack.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when RET executes with an empty stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrInvalidProgramImage is returned when a program does not fit into
	// the memory above the reserved interpreter area.
	ErrInvalidProgramImage = errors.New("program image does not fit in memory")
)

// Fault describes a failed Step. The machine state is exactly as it was
// before the faulting instruction began, so the caller may inspect or halt
// at PC without ambiguity.
type Fault struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at 0x%03X (opcode 0x%04X): %v", f.PC, f.Opcode, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }
