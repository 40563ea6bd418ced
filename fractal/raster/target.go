// Package raster draws gasket frames into RGB565 pixel buffers.
//
// It is a small fixed pipeline: clear, flat triangle fill, Bresenham outline
// and a disc for the center marker. Painter implements scene.Canvas so a
// scene.Frame can be replayed straight into a framebuffer.
package raster

import "image/color"

// Target is a minimal pixel surface.
//
// Implementations clip out-of-bounds coordinates.
type Target interface {
	Size() (w, h int)
	SetPixel(x, y int, c color.RGBA)
	Clear(c color.RGBA)
}

// RGB565Target views a hal framebuffer (or any little-endian RGB565 buffer)
// as a Target. Rows may be padded: Stride is the byte distance between rows
// and only the first W*2 bytes of each row are written.
type RGB565Target struct {
	Buf    []byte
	Stride int
	W      int
	H      int
}

func (t *RGB565Target) Size() (w, h int) { return t.W, t.H }

// offset returns the byte index of pixel (x, y), or false if the pixel lies
// outside the target or the buffer is too short to hold it.
func (t *RGB565Target) offset(x, y int) (int, bool) {
	if t == nil || t.Stride < 2*t.W || x < 0 || y < 0 || x >= t.W || y >= t.H {
		return 0, false
	}
	off := y*t.Stride + x*2
	return off, off+1 < len(t.Buf)
}

// Clear paints the first row and copies it down; row padding is untouched.
func (t *RGB565Target) Clear(c color.RGBA) {
	if t == nil || t.W <= 0 || t.H <= 0 || t.Stride < 2*t.W {
		return
	}
	row := t.W * 2
	if len(t.Buf) < row {
		return
	}
	p := RGB565(c)
	first := t.Buf[:row]
	for i := 0; i < row; i += 2 {
		first[i], first[i+1] = byte(p), byte(p>>8)
	}
	for y := 1; y < t.H; y++ {
		start := y * t.Stride
		if start+row > len(t.Buf) {
			return
		}
		copy(t.Buf[start:start+row], first)
	}
}

func (t *RGB565Target) SetPixel(x, y int, c color.RGBA) {
	off, ok := t.offset(x, y)
	if !ok {
		return
	}
	p := RGB565(c)
	t.Buf[off], t.Buf[off+1] = byte(p), byte(p>>8)
}

// At returns the RGB565 value stored at (x, y), or 0 outside the target.
func (t *RGB565Target) At(x, y int) uint16 {
	off, ok := t.offset(x, y)
	if !ok {
		return 0
	}
	return uint16(t.Buf[off]) | uint16(t.Buf[off+1])<<8
}

// RGB565 packs c as rrrrrggggggbbbbb; alpha is ignored.
func RGB565(c color.RGBA) uint16 {
	return uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
}
