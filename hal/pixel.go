package hal

func rgb565(r, g, b uint8) uint16 {
	rr := uint16(r>>3) & 0x1F
	gg := uint16(g>>2) & 0x3F
	bb := uint16(b>>3) & 0x1F
	return (rr << 11) | (gg << 5) | bb
}

func rgb888From565(p uint16) (r, g, b uint8) {
	rr := (p >> 11) & 0x1F
	gg := (p >> 5) & 0x3F
	bb := p & 0x1F

	r = uint8((rr * 255) / 31)
	g = uint8((gg * 255) / 63)
	b = uint8((bb * 255) / 31)
	return r, g, b
}

// rgb888At decodes the little-endian RGB565 pixel at byte offset off.
func rgb888At(buf []byte, off int) (r, g, b uint8) {
	if off < 0 || off+1 >= len(buf) {
		return 0, 0, 0
	}
	return rgb888From565(uint16(buf[off]) | uint16(buf[off+1])<<8)
}

// expandRGBA writes src (RGB565) into dst as opaque RGBA8888.
func expandRGBA(dst, src []byte) {
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, g, b := rgb888At(src, i)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = g
		dst[j+2] = b
		dst[j+3] = 0xFF
	}
}
