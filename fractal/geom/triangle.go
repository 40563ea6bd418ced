package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Rotation angles, in degrees, that carry the anchor to the root's B and C.
const (
	RootAngleB = 120
	RootAngleC = 240
)

// Triangle is an immutable node of the subdivision tree.
//
// Midpoints are computed once in NewTriangle. Degenerate triangles are valid.
type Triangle struct {
	a, b, c             Point
	midAB, midBC, midAC Point
	gen                 int
}

// NewTriangle builds a triangle and its edge midpoints.
// Vertex order matters to the subdivision rule. A negative generation is
// treated as 0.
func NewTriangle(a, b, c Point, generation int) Triangle {
	if generation < 0 {
		generation = 0
	}
	return Triangle{
		a:     a,
		b:     b,
		c:     c,
		midAB: Mid(a, b),
		midBC: Mid(b, c),
		midAC: Mid(a, c),
		gen:   generation,
	}
}

// BuildRoot returns the generation 0 triangle whose first vertex is anchor
// and whose other two vertices are anchor rotated 120° and 240° about center.
//
// center is the pivot as given, not the centroid of the result.
func BuildRoot(center, anchor Point) Triangle {
	return NewTriangle(
		anchor,
		Rotate(anchor, RootAngleB, center),
		Rotate(anchor, RootAngleC, center),
		0,
	)
}

// A returns the first vertex; for a root it is the dragged anchor.
func (t Triangle) A() Point { return t.a }

// B returns the second vertex.
func (t Triangle) B() Point { return t.b }

// C returns the third vertex.
func (t Triangle) C() Point { return t.c }

// MidAB returns the midpoint of edge AB.
func (t Triangle) MidAB() Point { return t.midAB }

// MidBC returns the midpoint of edge BC.
func (t Triangle) MidBC() Point { return t.midBC }

// MidAC returns the midpoint of edge AC.
func (t Triangle) MidAC() Point { return t.midAC }

// Generation is the depth below the root, which is generation 0.
func (t Triangle) Generation() int { return t.gen }

// Vertices returns A, B and C in order.
func (t Triangle) Vertices() [3]Point { return [3]Point{t.a, t.b, t.c} }

// Ring returns the closed ring A, B, C, A.
func (t Triangle) Ring() orb.Ring {
	return orb.Ring{t.a, t.b, t.c, t.a}
}

// Bound is the axis-aligned box around the three vertices.
func (t Triangle) Bound() orb.Bound {
	return t.Ring().Bound()
}

// Area is the unsigned planar area; 0 for degenerate triangles.
func (t Triangle) Area() float64 {
	return math.Abs(planar.Area(orb.Polygon{t.Ring()}))
}

// Finite reports whether every vertex has finite coordinates.
func (t Triangle) Finite() bool {
	return Finite(t.a) && Finite(t.b) && Finite(t.c)
}
