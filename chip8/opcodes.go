package chip8

// exec decodes and executes one instruction. The program counter is only
// committed at the end, and every fallible case validates before mutating,
// so a failing instruction leaves the machine exactly as it was.
func (m *VM) exec(op uint16) error {
	nnn := op & 0x0FFF
	nn := uint8(op)
	x := uint8(op>>8) & 0xF
	y := uint8(op>>4) & 0xF
	n := uint8(op) & 0xF

	next := m.pc + 2

	switch op & 0xF000 {
	case 0x0000:
		switch op {
		case 0x00E0: // 00E0 clear display
			m.fb.clear()

		case 0x00EE: // 00EE return from subroutine
			if m.sp == 0 {
				return ErrStackUnderflow
			}
			m.sp--
			next = m.stack[m.sp]

		default: // 0NNN machine-code call, unsupported on any interpreter
			return ErrIllegalInstruction
		}

	case 0x1000: // 1NNN jump
		next = nnn

	case 0x2000: // 2NNN call subroutine
		if m.sp == stackDepth {
			return ErrStackOverflow
		}
		m.stack[m.sp] = next
		m.sp++
		next = nnn

	case 0x3000: // 3XNN skip if Vx == NN
		if m.v[x] == nn {
			next += 2
		}

	case 0x4000: // 4XNN skip if Vx != NN
		if m.v[x] != nn {
			next += 2
		}

	case 0x5000: // 5XY0 skip if Vx == Vy
		if n != 0 {
			return ErrIllegalInstruction
		}
		if m.v[x] == m.v[y] {
			next += 2
		}

	case 0x6000: // 6XNN Vx = NN
		m.v[x] = nn

	case 0x7000: // 7XNN Vx += NN, flag untouched
		m.v[x] += nn

	case 0x8000:
		if err := m.execALU(op, x, y); err != nil {
			return err
		}

	case 0x9000: // 9XY0 skip if Vx != Vy
		if n != 0 {
			return ErrIllegalInstruction
		}
		if m.v[x] != m.v[y] {
			next += 2
		}

	case 0xA000: // ANNN I = NNN
		m.i = nnn

	case 0xB000: // BNNN jump to V0 + NNN
		next = uint16(m.v[0]) + nnn

	case 0xC000: // CXNN Vx = rand() & NN
		m.v[x] = uint8(m.rng.Intn(0x100)) & nn

	case 0xD000: // DXYN draw N sprite rows from I at (Vx, Vy)
		if err := m.mem.checkRange(m.i, uint16(n)); err != nil {
			return err
		}
		collision := m.fb.drawSprite(m.v[x], m.v[y], m.mem[m.i:m.i+uint16(n)])
		m.setFlag(collision)

	case 0xE000:
		switch nn {
		case 0x9E: // EX9E skip if key Vx is down
			if m.keys.pressed(m.v[x]) {
				next += 2
			}

		case 0xA1: // EXA1 skip if key Vx is up
			if !m.keys.pressed(m.v[x]) {
				next += 2
			}

		default:
			return ErrIllegalInstruction
		}

	case 0xF000:
		done, err := m.execMisc(x, nn)
		if err != nil {
			return err
		}
		if !done {
			// FX0A with no key down: stay on this instruction so the
			// wait is cooperative and interruptible between steps.
			next = m.pc
		}
	}

	m.pc = next
	return nil
}

// execALU handles the 8XY_ register-to-register family.
func (m *VM) execALU(op uint16, x, y uint8) error {
	switch op & 0x000F {
	case 0x0: // 8XY0 Vx = Vy
		m.v[x] = m.v[y]

	case 0x1: // 8XY1 Vx |= Vy
		m.v[x] |= m.v[y]

	case 0x2: // 8XY2 Vx &= Vy
		m.v[x] &= m.v[y]

	case 0x3: // 8XY3 Vx ^= Vy
		m.v[x] ^= m.v[y]

	case 0x4: // 8XY4 Vx += Vy, VF = carry
		carry := uint16(m.v[x])+uint16(m.v[y]) > 0xFF
		m.v[x] += m.v[y]
		m.setFlag(carry)

	case 0x5: // 8XY5 Vx -= Vy, VF = 1 when no borrow
		borrow := m.v[x] < m.v[y]
		m.v[x] -= m.v[y]
		m.setFlag(!borrow)

	case 0x6: // 8XY6 Vx >>= 1, VF = shifted-out bit
		out := m.v[x] & 0x01
		m.v[x] >>= 1
		m.setFlag(out == 1)

	case 0x7: // 8XY7 Vx = Vy - Vx, VF = 1 when no borrow
		borrow := m.v[y] < m.v[x]
		m.v[x] = m.v[y] - m.v[x]
		m.setFlag(!borrow)

	case 0xE: // 8XYE Vx <<= 1, VF = shifted-out bit
		out := m.v[x] >> 7
		m.v[x] <<= 1
		m.setFlag(out == 1)

	default:
		return ErrIllegalInstruction
	}
	return nil
}

// execMisc handles the FX__ family. It reports done=false only for FX0A
// when no key is held, which makes the executor retry the instruction.
func (m *VM) execMisc(x, nn uint8) (done bool, err error) {
	switch nn {
	case 0x07: // FX07 Vx = delay timer
		m.v[x] = m.timers.getDelay()

	case 0x0A: // FX0A wait for a key press, Vx = key
		key, ok := m.keys.firstDown()
		if !ok {
			return false, nil
		}
		m.v[x] = key

	case 0x15: // FX15 delay timer = Vx
		m.timers.setDelay(m.v[x])

	case 0x18: // FX18 sound timer = Vx
		m.timers.setSound(m.v[x])

	case 0x1E: // FX1E I += Vx
		m.i += uint16(m.v[x])

	case 0x29: // FX29 I = address of font glyph for Vx
		m.i = fontOffset + uint16(m.v[x]&0x0F)*fontGlyphBytes

	case 0x33: // FX33 BCD of Vx into memory at I
		if err := m.mem.checkRange(m.i, 3); err != nil {
			return false, err
		}
		m.mem[m.i+0] = m.v[x] / 100
		m.mem[m.i+1] = (m.v[x] % 100) / 10
		m.mem[m.i+2] = m.v[x] % 10

	case 0x55: // FX55 dump V0..Vx to memory at I
		if err := m.mem.checkRange(m.i, uint16(x)+1); err != nil {
			return false, err
		}
		copy(m.mem[m.i:], m.v[:x+1])

	case 0x65: // FX65 load V0..Vx from memory at I
		if err := m.mem.checkRange(m.i, uint16(x)+1); err != nil {
			return false, err
		}
		copy(m.v[:x+1], m.mem[m.i:])

	default:
		return false, ErrIllegalInstruction
	}
	return true, nil
}

func (m *VM) setFlag(b bool) {
	if b {
		m.v[0xF] = 1
	} else {
		m.v[0xF] = 0
	}
}
