// Package scene turns pointer presses and drags into ordered drawing frames.
//
// A press moves the pivot used for the next drag. A drag rebuilds the whole
// gasket: the canvas is cleared, the root triangle is drawn outline-only and
// every descendant follows, filled and outlined, in subdivision order.
package scene

import (
	"context"

	"gasket/fractal/geom"
	"gasket/fractal/subdiv"
)

// Style distinguishes the root outline from filled descendants.
type Style uint8

const (
	// StyleRoot is stroked only; its interior stays transparent.
	StyleRoot Style = iota + 1
	// StyleDescendant is filled and stroked.
	StyleDescendant
)

func (s Style) String() string {
	switch s {
	case StyleRoot:
		return "root"
	case StyleDescendant:
		return "descendant"
	default:
		return "unknown"
	}
}

// Canvas is the rendering collaborator a Frame is replayed onto.
type Canvas interface {
	Clear()
	DrawTriangle(v [3]geom.Point, s Style)
	DrawMarker(p geom.Point)
}

// Shape is one triangle to draw.
type Shape struct {
	Vertices   [3]geom.Point
	Style      Style
	Generation int
}

// Frame is the ordered output of one input event.
type Frame struct {
	// Clear removes everything previously drawn, marker included.
	Clear  bool
	Shapes []Shape

	Marker    geom.Point
	HasMarker bool
}

// Replay draws f onto c in order.
func (f Frame) Replay(c Canvas) {
	if c == nil {
		return
	}
	if f.Clear {
		c.Clear()
	}
	for _, s := range f.Shapes {
		c.DrawTriangle(s.Vertices, s.Style)
	}
	if f.HasMarker {
		c.DrawMarker(f.Marker)
	}
}

// Scene holds the press center between events.
//
// It is not safe for concurrent use; events are handled one at a time.
type Scene struct {
	maxDepth int
	parallel bool

	center  geom.Point
	pressed bool
}

// Option configures a Scene.
type Option func(*Scene)

// WithMaxDepth sets the generation at which subdivision stops.
func WithMaxDepth(depth int) Option {
	return func(s *Scene) { s.maxDepth = depth }
}

// WithParallel expands the three root branches concurrently. Frames are
// identical to the sequential ones.
func WithParallel(on bool) Option {
	return func(s *Scene) { s.parallel = on }
}

// New returns a Scene centered on the origin.
func New(opts ...Option) *Scene {
	s := &Scene{maxDepth: subdiv.DefaultMaxDepth}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxDepth < 0 {
		s.maxDepth = 0
	}
	return s
}

func (s *Scene) MaxDepth() int { return s.maxDepth }

// Center returns the current pivot and whether a press has set it.
func (s *Scene) Center() (geom.Point, bool) { return s.center, s.pressed }

// Press sets the pivot for subsequent drags and shows the marker there.
func (s *Scene) Press(p geom.Point) Frame {
	s.center = p
	s.pressed = true
	return Frame{Marker: p, HasMarker: true}
}

// Drag rebuilds the gasket with p as the root's first vertex.
func (s *Scene) Drag(p geom.Point) Frame {
	root := geom.BuildRoot(s.center, p)

	tris := s.expand(root)
	shapes := make([]Shape, len(tris))
	for i, t := range tris {
		style := StyleDescendant
		if i == 0 {
			style = StyleRoot
		}
		shapes[i] = Shape{Vertices: t.Vertices(), Style: style, Generation: t.Generation()}
	}
	return Frame{Clear: true, Shapes: shapes}
}

func (s *Scene) expand(root geom.Triangle) []geom.Triangle {
	if s.parallel {
		// Background context never cancels, so the error is always nil.
		if tris, err := subdiv.CollectParallel(context.Background(), root, s.maxDepth); err == nil {
			return tris
		}
	}
	return subdiv.Collect(root, s.maxDepth)
}
