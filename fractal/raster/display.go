package raster

import (
	"image/color"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// Display adapts a Target to drivers.Displayer so tinyfont can write into it.
type Display struct {
	T Target

	// Present, if set, is called by Display().
	Present func() error
}

var _ drivers.Displayer = (*Display)(nil)

func (d *Display) Size() (x, y int16) {
	if d.T == nil {
		return 0, 0
	}
	w, h := d.T.Size()
	return clampInt16(w), clampInt16(h)
}

func (d *Display) SetPixel(x, y int16, c color.RGBA) {
	if d.T == nil {
		return
	}
	d.T.SetPixel(int(x), int(y), c)
}

func (d *Display) Display() error {
	if d.Present == nil {
		return nil
	}
	return d.Present()
}

// HUDFont is the font used for status text.
var HUDFont tinyfont.Fonter = &tinyfont.TomThumb

// DrawText writes s with its baseline at (x, y).
func (d *Display) DrawText(x, y int, s string, c color.RGBA) {
	if d.T == nil || s == "" {
		return
	}
	tinyfont.WriteLine(d, HUDFont, clampInt16(x), clampInt16(y), s, c)
}

// TextWidth is the rendered width of s in pixels.
func TextWidth(s string) int {
	_, w := tinyfont.LineWidth(HUDFont, s)
	return int(w)
}

func clampInt16(v int) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
