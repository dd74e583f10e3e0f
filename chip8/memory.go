package chip8

import "fmt"

// memory is the flat 4 KiB address space. The region below ProgramOffset is
// reserved for interpreter data (the font sprites live there).
type memory [MemorySize]byte

// readWord reads a big-endian 2-byte value, the instruction encoding.
func (m *memory) readWord(addr uint16) (uint16, error) {
	if int(addr)+1 >= MemorySize {
		return 0, fmt.Errorf("%w: 0x%04X", ErrOutOfBounds, addr)
	}
	return uint16(m[addr])<<8 | uint16(m[addr+1]), nil
}

// checkRange fails unless [addr, addr+n) lies inside the address space.
func (m *memory) checkRange(addr uint16, n uint16) error {
	if int(addr)+int(n) > MemorySize {
		return fmt.Errorf("%w: 0x%04X+%d", ErrOutOfBounds, addr, n)
	}
	return nil
}
