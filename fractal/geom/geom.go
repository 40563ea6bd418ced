// Package geom holds the 2D values the gasket is built from: points,
// triangles with precomputed midpoints, and the rotation used to derive an
// equilateral root triangle from a pressed center and a dragged anchor.
package geom

import (
	"math"

	"github.com/paulmach/orb"
)

// Point is a 2D coordinate. Two points are equal when both coordinates are.
type Point = orb.Point

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return Point{x, y} }

// Mid returns the arithmetic mean of p and q.
func Mid(p, q Point) Point {
	return Point{(p[0] + q[0]) / 2, (p[1] + q[1]) / 2}
}

// Rotate turns p about center by degrees (counter-clockwise in a y-up frame).
func Rotate(p Point, degrees float64, center Point) Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sincos(rad)
	dx := p[0] - center[0]
	dy := p[1] - center[1]
	return Point{
		center[0] + dx*cos - dy*sin,
		center[1] + dx*sin + dy*cos,
	}
}

// Finite reports whether both coordinates are neither NaN nor infinite.
func Finite(p Point) bool {
	return !math.IsNaN(p[0]) && !math.IsInf(p[0], 0) &&
		!math.IsNaN(p[1]) && !math.IsInf(p[1], 0)
}
