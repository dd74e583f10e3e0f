// Package disasm renders CHIP-8 opcodes as Cowgod-style mnemonics.
package disasm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/hachivm/hachi/chip8"
)

// Opcode returns the assembly mnemonic for a single 16-bit instruction.
// Encodings outside the base instruction set render as a raw word, so a
// listing never fails on data embedded between instructions.
func Opcode(op uint16) string {
	nnn := op & 0x0FFF
	nn := uint8(op)
	x := (op >> 8) & 0xF
	y := (op >> 4) & 0xF
	n := op & 0xF

	switch op & 0xF000 {
	case 0x0000:
		switch op {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		default:
			return fmt.Sprintf("SYS 0x%03X", nnn)
		}
	case 0x1000:
		return fmt.Sprintf("JP 0x%03X", nnn)
	case 0x2000:
		return fmt.Sprintf("CALL 0x%03X", nnn)
	case 0x3000:
		return fmt.Sprintf("SE V%X, 0x%02X", x, nn)
	case 0x4000:
		return fmt.Sprintf("SNE V%X, 0x%02X", x, nn)
	case 0x5000:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6000:
		return fmt.Sprintf("LD V%X, 0x%02X", x, nn)
	case 0x7000:
		return fmt.Sprintf("ADD V%X, 0x%02X", x, nn)
	case 0x8000:
		switch n {
		case 0x0:
			return fmt.Sprintf("LD V%X, V%X", x, y)
		case 0x1:
			return fmt.Sprintf("OR V%X, V%X", x, y)
		case 0x2:
			return fmt.Sprintf("AND V%X, V%X", x, y)
		case 0x3:
			return fmt.Sprintf("XOR V%X, V%X", x, y)
		case 0x4:
			return fmt.Sprintf("ADD V%X, V%X", x, y)
		case 0x5:
			return fmt.Sprintf("SUB V%X, V%X", x, y)
		case 0x6:
			return fmt.Sprintf("SHR V%X", x)
		case 0x7:
			return fmt.Sprintf("SUBN V%X, V%X", x, y)
		case 0xE:
			return fmt.Sprintf("SHL V%X", x)
		}
	case 0x9000:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA000:
		return fmt.Sprintf("LD I, 0x%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("JP V0, 0x%03X", nnn)
	case 0xC000:
		return fmt.Sprintf("RND V%X, 0x%02X", x, nn)
	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, n)
	case 0xE000:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF000:
		switch nn {
		case 0x07:
			return fmt.Sprintf("LD V%X, DT", x)
		case 0x0A:
			return fmt.Sprintf("LD V%X, K", x)
		case 0x15:
			return fmt.Sprintf("LD DT, V%X", x)
		case 0x18:
			return fmt.Sprintf("LD ST, V%X", x)
		case 0x1E:
			return fmt.Sprintf("ADD I, V%X", x)
		case 0x29:
			return fmt.Sprintf("LD F, V%X", x)
		case 0x33:
			return fmt.Sprintf("LD B, V%X", x)
		case 0x55:
			return fmt.Sprintf("LD [I], V%X", x)
		case 0x65:
			return fmt.Sprintf("LD V%X, [I]", x)
		}
	}
	return fmt.Sprintf(".word 0x%04X", op)
}

// Program writes a full listing of the ROM read from r, one instruction per
// line, addressed from the standard program load offset.
func Program(r io.Reader, w io.Writer) error {
	rom, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}

	bw := bufio.NewWriter(w)
	addr := uint16(chip8.ProgramOffset)
	for i := 0; i+1 < len(rom); i += 2 {
		op := uint16(rom[i])<<8 | uint16(rom[i+1])
		fmt.Fprintf(bw, "0x%03X: %04X  %s\n", addr, op, Opcode(op))
		addr += 2
	}
	if len(rom)%2 == 1 {
		fmt.Fprintf(bw, "0x%03X: %02X    .byte 0x%02X\n", addr, rom[len(rom)-1], rom[len(rom)-1])
	}
	return bw.Flush()
}
