package chip8

// framebuffer is the 64x32 monochrome display. Drawing is an XOR blit with
// both axes wrapping modulo the grid size; it is the single source of truth
// for pixel state, the presentation layer only ever reads a copy.
type framebuffer struct {
	pix    [DisplayW * DisplayH]uint8
	redraw bool
}

func (f *framebuffer) clear() {
	for i := range f.pix {
		f.pix[i] = 0
	}
	f.redraw = true
}

// drawSprite XORs the sprite rows onto the grid at (x, y) and reports
// whether any pixel flipped from set to clear. Each row byte is drawn
// left-to-right from its most significant bit.
func (f *framebuffer) drawSprite(x, y uint8, rows []byte) bool {
	collision := false
	for ry, row := range rows {
		py := (int(y) + ry) % DisplayH
		for rx := 0; rx < 8; rx++ {
			if row&(0x80>>rx) == 0 {
				continue
			}
			px := (int(x) + rx) % DisplayW
			i := py*DisplayW + px
			if f.pix[i] == 1 {
				collision = true
			}
			f.pix[i] ^= 1
		}
	}
	f.redraw = true
	return collision
}

// snapshot returns a row-major copy of the pixel grid.
func (f *framebuffer) snapshot() []uint8 {
	out := make([]uint8, len(f.pix))
	copy(out, f.pix[:])
	return out
}
