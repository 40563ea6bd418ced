package app

import (
	"fmt"

	"gasket/fractal/geom"
	"gasket/fractal/raster"
	"gasket/fractal/scene"
	"gasket/fractal/subdiv"
	"gasket/hal"
)

// MaxDepthLimit caps Config.Depth; depth 10 is already 88573 triangles.
const MaxDepthLimit = 10

// Config holds the settings main derives from flags.
type Config struct {
	// Depth is the generation at which subdivision stops.
	Depth int
	// Parallel expands the root's three branches concurrently.
	Parallel bool
	// HUD draws a status line with depth and triangle counts.
	HUD bool
	// Verbose logs one line per handled pointer event.
	Verbose bool
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{Depth: subdiv.DefaultMaxDepth}
}

// Validate reports an error when Depth is outside [0, MaxDepthLimit].
func (c Config) Validate() error {
	if c.Depth < 0 || c.Depth > MaxDepthLimit {
		return fmt.Errorf("depth %d out of range [0, %d]", c.Depth, MaxDepthLimit)
	}
	return nil
}

type system struct {
	cfg Config
	log hal.Logger

	fb      hal.Framebuffer
	keys    <-chan hal.KeyEvent
	pointer <-chan hal.PointerEvent

	scene   *scene.Scene
	painter *raster.Painter
	display *raster.Display

	// Retained display list: the last drag's shapes plus the marker.
	shapes    []scene.Shape
	marker    geom.Point
	hasMarker bool
	dirty     bool

	frames int
}

// New wires the gasket app onto h and returns the per-tick step function.
// An invalid cfg falls back to DefaultConfig with a logged warning.
func New(h hal.HAL, cfg Config) func() error {
	s := newSystem(h, cfg)
	return s.safeStep
}

func newSystem(h hal.HAL, cfg Config) *system {
	// The marker starts on the origin, where a drag pivots before any press.
	s := &system{cfg: cfg, log: h.Logger(), hasMarker: true}
	if err := cfg.Validate(); err != nil {
		s.logf("gasket: %v; using defaults", err)
		s.cfg = DefaultConfig()
		s.cfg.HUD, s.cfg.Verbose, s.cfg.Parallel = cfg.HUD, cfg.Verbose, cfg.Parallel
	}

	if d := h.Display(); d != nil {
		s.fb = d.Framebuffer()
	}
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			s.keys = kbd.Events()
		}
		if ptr := in.Pointer(); ptr != nil {
			s.pointer = ptr.Events()
		}
	}

	s.scene = scene.New(scene.WithMaxDepth(s.cfg.Depth), scene.WithParallel(s.cfg.Parallel))
	if s.fb != nil && s.fb.Format() == hal.PixelFormatRGB565 {
		t := &raster.RGB565Target{Buf: s.fb.Buffer(), Stride: s.fb.StrideBytes(), W: s.fb.Width(), H: s.fb.Height()}
		s.painter = raster.NewPainter(t)
		s.display = &raster.Display{T: t, Present: s.fb.Present}
		s.dirty = true
	}

	w, hh := 0, 0
	if s.fb != nil {
		w, hh = s.fb.Width(), s.fb.Height()
	}
	s.logf("gasket: depth=%d (%d triangles) surface=%dx%d parallel=%v",
		s.cfg.Depth, subdiv.Count(s.cfg.Depth), w, hh, s.cfg.Parallel)
	return s
}

func (s *system) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString(fmt.Sprintf(format, args...))
}

// step drains pending input, handling each event to completion, then
// repaints once if anything changed.
func (s *system) step() error {
	if err := s.drainKeys(); err != nil {
		return err
	}
	s.drainPointer()
	if s.dirty {
		return s.paint()
	}
	return nil
}

func (s *system) drainKeys() error {
	for {
		select {
		case ev, ok := <-s.keys:
			if !ok {
				s.keys = nil
				return nil
			}
			if err := s.handleKey(ev); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (s *system) handleKey(ev hal.KeyEvent) error {
	if !ev.Press {
		return nil
	}
	switch {
	case ev.Code == hal.KeyEscape:
		s.logf("gasket: quit after %d frames", s.frames)
		return hal.ErrStop
	case ev.Rune == 'c' || ev.Rune == 'C':
		s.apply(scene.Frame{Clear: true})
	}
	return nil
}

func (s *system) drainPointer() {
	for {
		select {
		case ev, ok := <-s.pointer:
			if !ok {
				s.pointer = nil
				return
			}
			s.handlePointer(ev)
		default:
			return
		}
	}
}

func (s *system) handlePointer(ev hal.PointerEvent) {
	p := geom.Pt(ev.X, ev.Y)
	switch ev.Action {
	case hal.PointerPress:
		s.apply(s.scene.Press(p))
		if s.cfg.Verbose {
			s.logf("gasket: press %.1f,%.1f", ev.X, ev.Y)
		}
	case hal.PointerDrag:
		f := s.scene.Drag(p)
		s.apply(f)
		s.frames++
		if s.cfg.Verbose {
			s.logf("gasket: drag %.1f,%.1f -> %d triangles", ev.X, ev.Y, len(f.Shapes))
		}
	}
}

// apply folds f into the retained display list.
func (s *system) apply(f scene.Frame) {
	if f.Clear {
		s.shapes = f.Shapes
		s.hasMarker = false
	} else {
		s.shapes = append(s.shapes, f.Shapes...)
	}
	if f.HasMarker {
		s.marker = f.Marker
		s.hasMarker = true
	}
	s.dirty = true
}

// frame is the retained display list as a single replayable frame.
func (s *system) frame() scene.Frame {
	return scene.Frame{Clear: true, Shapes: s.shapes, Marker: s.marker, HasMarker: s.hasMarker}
}

func (s *system) paint() error {
	if s.painter == nil {
		s.dirty = false
		return nil
	}
	s.frame().Replay(s.painter)
	if s.cfg.HUD {
		s.drawHUD()
	}
	s.dirty = false
	if err := s.display.Display(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (s *system) drawHUD() {
	text := fmt.Sprintf("depth %d  triangles %d  drawn %d", s.cfg.Depth, len(s.shapes), s.painter.Drawn)
	if c, ok := s.scene.Center(); ok {
		text += fmt.Sprintf("  center %.0f,%.0f", c[0], c[1])
	}
	_, h := s.painter.T.Size()
	s.display.DrawText(2, h-3, text, s.painter.Palette.Text)
}
