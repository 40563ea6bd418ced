package raster

import (
	"image/color"
	"math"

	"gasket/fractal/geom"
	"gasket/fractal/scene"

	"github.com/paulmach/orb"
)

// Palette holds the colors a Painter uses.
type Palette struct {
	Background color.RGBA
	RootStroke color.RGBA
	Stroke     color.RGBA
	Fill       color.RGBA
	Marker     color.RGBA
	Text       color.RGBA
}

// DefaultPalette: black canvas, blue root outline, white-on-black
// descendants, cyan center marker.
var DefaultPalette = Palette{
	Background: color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	RootStroke: color.RGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	Stroke:     color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Fill:       color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	Marker:     color.RGBA{R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	Text:       color.RGBA{R: 0x88, G: 0x88, B: 0x88, A: 0xFF},
}

// MarkerRadius is the radius of the center marker in pixels.
const MarkerRadius = 3

// maxCoord bounds vertex coordinates the painter will rasterize.
const maxCoord = 1 << 20

// Painter draws scene frames into a Target.
type Painter struct {
	T       Target
	Palette Palette

	// Drawn counts triangles rasterized since the last Clear.
	Drawn int
	// Skipped counts triangles dropped since the last Clear: off-target or
	// with non-finite vertices.
	Skipped int
}

// NewPainter returns a Painter using DefaultPalette.
func NewPainter(t Target) *Painter {
	return &Painter{T: t, Palette: DefaultPalette}
}

var _ scene.Canvas = (*Painter)(nil)

func (p *Painter) Clear() {
	p.Drawn = 0
	p.Skipped = 0
	if p.T == nil {
		return
	}
	p.T.Clear(p.Palette.Background)
}

// DrawTriangle fills descendants and outlines every triangle. The root keeps
// whatever lies beneath it.
func (p *Painter) DrawTriangle(v [3]geom.Point, s scene.Style) {
	if p.T == nil {
		return
	}
	tri := geom.NewTriangle(v[0], v[1], v[2], 0)
	if !tri.Finite() || !p.visible(tri.Bound()) {
		p.Skipped++
		return
	}

	a, b, c := toPixel(v[0]), toPixel(v[1]), toPixel(v[2])

	stroke := p.Palette.Stroke
	if s == scene.StyleRoot {
		stroke = p.Palette.RootStroke
	} else if tri.Area() > 0 {
		p.fillTriangle(a, b, c, p.Palette.Fill)
	}

	p.drawLine(a, b, stroke)
	p.drawLine(b, c, stroke)
	p.drawLine(c, a, stroke)
	p.Drawn++
}

// DrawMarker paints a filled disc centered on c.
func (p *Painter) DrawMarker(c geom.Point) {
	if p.T == nil || !geom.Finite(c) {
		return
	}
	at := toPixel(c)
	r := MarkerRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				p.T.SetPixel(at.x+dx, at.y+dy, p.Palette.Marker)
			}
		}
	}
}

func (p *Painter) visible(b orb.Bound) bool {
	if b.Min[0] < -maxCoord || b.Min[1] < -maxCoord || b.Max[0] > maxCoord || b.Max[1] > maxCoord {
		return false
	}
	w, h := p.T.Size()
	view := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{float64(w - 1), float64(h - 1)}}
	return view.Intersects(b)
}

// pixel is an integer framebuffer coordinate.
type pixel struct{ x, y int }

func toPixel(pt geom.Point) pixel {
	return pixel{int(math.Floor(pt[0] + 0.5)), int(math.Floor(pt[1] + 0.5))}
}

// drawLine strokes a to b inclusive with Bresenham's integer error term.
func (p *Painter) drawLine(a, b pixel, c color.RGBA) {
	dx, sx := span(a.x, b.x)
	dy, sy := span(a.y, b.y)
	dy = -dy
	acc := dx + dy
	for at := a; ; {
		p.T.SetPixel(at.x, at.y, c)
		if at == b {
			return
		}
		e := 2 * acc
		if e >= dy {
			acc += dy
			at.x += sx
		}
		if e <= dx {
			acc += dx
			at.y += sy
		}
	}
}

// span returns |to-from| and the unit step from from toward to.
func span(from, to int) (int, int) {
	if to < from {
		return from - to, -1
	}
	return to - from, 1
}

// fillTriangle sets every pixel whose center lies inside or on the edges of
// (a, b, c), clipped to the target.
func (p *Painter) fillTriangle(a, b, c pixel, col color.RGBA) {
	w, h := p.T.Size()
	minX, maxX := max(min(a.x, b.x, c.x), 0), min(max(a.x, b.x, c.x), w-1)
	minY, maxY := max(min(a.y, b.y, c.y), 0), min(max(a.y, b.y, c.y), h-1)
	if minX > maxX || minY > maxY {
		return
	}

	switch area := orient(a, b, c); {
	case area == 0:
		return
	case area < 0:
		b, c = c, b
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			q := pixel{x, y}
			if orient(b, c, q) < 0 || orient(c, a, q) < 0 || orient(a, b, q) < 0 {
				continue
			}
			p.T.SetPixel(x, y, col)
		}
	}
}

// orient is twice the signed area of (a, b, q); its sign says which side of
// the directed edge a->b the point q lies on.
func orient(a, b, q pixel) int {
	return (q.x-a.x)*(b.y-a.y) - (q.y-a.y)*(b.x-a.x)
}
