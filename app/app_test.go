package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"gasket/fractal/geom"
	"gasket/fractal/raster"
	"gasket/fractal/scene"
	"gasket/fractal/subdiv"
	"gasket/hal"
)

type testLogger struct{ lines []string }

func (l *testLogger) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *testLogger) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

func (l *testLogger) contains(sub string) bool {
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type testFB struct {
	w, h     int
	buf      []byte
	presents int
}

func newTestFB(w, h int) *testFB {
	return &testFB{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *testFB) Width() int              { return f.w }
func (f *testFB) Height() int             { return f.h }
func (f *testFB) Format() hal.PixelFormat { return hal.PixelFormatRGB565 }
func (f *testFB) StrideBytes() int        { return f.w * 2 }
func (f *testFB) Buffer() []byte          { return f.buf }

func (f *testFB) Present() error {
	f.presents++
	return nil
}

func (f *testFB) ClearRGB(r, g, b uint8) {
	p := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

// count returns how many pixels hold the RGB565 value p.
func (f *testFB) count(p uint16) int {
	n := 0
	for i := 0; i < len(f.buf); i += 2 {
		if uint16(f.buf[i])|uint16(f.buf[i+1])<<8 == p {
			n++
		}
	}
	return n
}

type testHAL struct {
	log  *testLogger
	fb   *testFB
	keys chan hal.KeyEvent
	ptr  chan hal.PointerEvent
}

func newTestHAL(w, h int) *testHAL {
	return &testHAL{
		log:  &testLogger{},
		fb:   newTestFB(w, h),
		keys: make(chan hal.KeyEvent, 16),
		ptr:  make(chan hal.PointerEvent, 16),
	}
}

func (h *testHAL) Logger() hal.Logger   { return h.log }
func (h *testHAL) Display() hal.Display { return h }
func (h *testHAL) Input() hal.Input     { return h }

func (h *testHAL) Framebuffer() hal.Framebuffer { return h.fb }
func (h *testHAL) Keyboard() hal.Keyboard       { return keyboard(h.keys) }
func (h *testHAL) Pointer() hal.Pointer         { return pointer(h.ptr) }

type keyboard chan hal.KeyEvent

func (k keyboard) Events() <-chan hal.KeyEvent { return k }

type pointer chan hal.PointerEvent

func (p pointer) Events() <-chan hal.PointerEvent { return p }

var (
	black = raster.RGB565(raster.DefaultPalette.Background)
	white = raster.RGB565(raster.DefaultPalette.Stroke)
	blue  = raster.RGB565(raster.DefaultPalette.RootStroke)
	cyan  = raster.RGB565(raster.DefaultPalette.Marker)
)

func TestFirstStepPaintsBackground(t *testing.T) {
	h := newTestHAL(40, 30)
	h.fb.ClearRGB(0xFF, 0, 0)
	step := New(h, DefaultConfig())
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.presents != 1 {
		t.Fatalf("presents = %d, want 1", h.fb.presents)
	}
	marker := h.fb.count(cyan)
	if marker == 0 {
		t.Fatal("origin marker not painted")
	}
	if n := h.fb.count(black); n != 40*30-marker {
		t.Fatalf("black pixels = %d, want %d", n, 40*30-marker)
	}
	if err := step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.presents != 1 {
		t.Fatalf("idle step presented: presents = %d", h.fb.presents)
	}
}

func TestPressThenDrag(t *testing.T) {
	h := newTestHAL(200, 120)
	s := newSystem(h, DefaultConfig())

	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 100, Y: 60}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if h.fb.count(cyan) == 0 {
		t.Fatal("press painted no marker")
	}
	if h.fb.count(white) != 0 {
		t.Fatal("press painted triangles")
	}

	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 150, Y: 60}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got, want := len(s.shapes), subdiv.Count(subdiv.DefaultMaxDepth); got != want {
		t.Fatalf("shapes = %d, want %d", got, want)
	}
	if s.hasMarker {
		t.Fatal("drag kept the marker")
	}
	if h.fb.count(cyan) != 0 {
		t.Fatal("marker still painted after drag")
	}
	if h.fb.count(white) == 0 {
		t.Fatal("drag painted no descendants")
	}
	if s.shapes[0].Style != scene.StyleRoot {
		t.Fatalf("first shape style = %v, want root", s.shapes[0].Style)
	}
	for i, sh := range s.shapes[1:] {
		if sh.Style != scene.StyleDescendant {
			t.Fatalf("shape %d style = %v, want descendant", i+1, sh.Style)
		}
	}
	if s.frames != 1 {
		t.Fatalf("frames = %d, want 1", s.frames)
	}
}

func TestRootOutlineAtDepthZero(t *testing.T) {
	// Deeper drags stroke descendants over every root edge, so only depth 0
	// leaves the blue outline visible.
	h := newTestHAL(200, 120)
	s := newSystem(h, Config{Depth: 0})

	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 100, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 150, Y: 60}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.shapes) != 1 {
		t.Fatalf("shapes = %d, want 1", len(s.shapes))
	}
	if h.fb.count(blue) == 0 {
		t.Fatal("root outline not painted")
	}
	if h.fb.count(white) != 0 {
		t.Fatalf("white = %d, want 0 at depth 0", h.fb.count(white))
	}
}

func TestInitialMarkerAtOrigin(t *testing.T) {
	h := newTestHAL(20, 20)
	s := newSystem(h, DefaultConfig())
	if !s.hasMarker || s.marker != (geom.Point{}) {
		t.Fatalf("marker = %v (%v), want origin", s.marker, s.hasMarker)
	}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	cyanAt := raster.RGB565Target{Buf: h.fb.buf, Stride: h.fb.StrideBytes(), W: 20, H: 20}
	if cyanAt.At(0, 0) != cyan || cyanAt.At(10, 10) != black {
		t.Fatalf("At(0,0)=%#04x At(10,10)=%#04x, want marker only at origin", cyanAt.At(0, 0), cyanAt.At(10, 10))
	}
}

func TestDragsReplaceEachOther(t *testing.T) {
	h := newTestHAL(200, 120)
	s := newSystem(h, Config{Depth: 2})

	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 100, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 150, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 110, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerRelease, X: 110, Y: 60}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.shapes) != 13 {
		t.Fatalf("shapes = %d, want 13", len(s.shapes))
	}
	if got := s.shapes[0].Vertices[0]; got[0] != 110 || got[1] != 60 {
		t.Fatalf("root anchor = %v, want 110,60", got)
	}
	if h.fb.presents != 1 {
		t.Fatalf("presents = %d, want one repaint per step", h.fb.presents)
	}
}

func TestPressDoesNotClear(t *testing.T) {
	h := newTestHAL(200, 120)
	s := newSystem(h, Config{Depth: 1})

	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 100, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 150, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 20, Y: 20}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.shapes) != 4 || !s.hasMarker {
		t.Fatalf("shapes=%d marker=%v, want 4 and true", len(s.shapes), s.hasMarker)
	}
	if h.fb.count(cyan) == 0 || h.fb.count(white) == 0 {
		t.Fatal("want both marker and triangles painted")
	}
}

func TestEscapeStops(t *testing.T) {
	h := newTestHAL(20, 20)
	step := New(h, DefaultConfig())
	h.keys <- hal.KeyEvent{Code: hal.KeyEscape, Press: true}
	if err := step(); !errors.Is(err, hal.ErrStop) {
		t.Fatalf("step() = %v, want ErrStop", err)
	}
}

func TestClearKey(t *testing.T) {
	h := newTestHAL(200, 120)
	s := newSystem(h, DefaultConfig())

	h.ptr <- hal.PointerEvent{Action: hal.PointerPress, X: 100, Y: 60}
	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 150, Y: 60}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	h.keys <- hal.KeyEvent{Press: true, Rune: 'c'}
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if len(s.shapes) != 0 || s.hasMarker {
		t.Fatalf("shapes=%d marker=%v after clear", len(s.shapes), s.hasMarker)
	}
	if n := h.fb.count(black); n != 200*120 {
		t.Fatalf("black pixels = %d, want %d", n, 200*120)
	}
}

func TestInvalidDepthFallsBack(t *testing.T) {
	h := newTestHAL(20, 20)
	s := newSystem(h, Config{Depth: MaxDepthLimit + 1, HUD: true})
	if s.cfg.Depth != subdiv.DefaultMaxDepth {
		t.Fatalf("depth = %d, want %d", s.cfg.Depth, subdiv.DefaultMaxDepth)
	}
	if !s.cfg.HUD {
		t.Fatal("HUD flag lost on fallback")
	}
	if !h.log.contains("using defaults") {
		t.Fatalf("log = %q, want fallback warning", h.log.lines)
	}
}

func TestConfigValidate(t *testing.T) {
	for _, d := range []int{0, 6, MaxDepthLimit} {
		if err := (Config{Depth: d}).Validate(); err != nil {
			t.Fatalf("Validate(depth=%d) = %v", d, err)
		}
	}
	for _, d := range []int{-1, MaxDepthLimit + 1} {
		if err := (Config{Depth: d}).Validate(); err == nil {
			t.Fatalf("Validate(depth=%d) = nil, want error", d)
		}
	}
}

func TestHUDDrawsText(t *testing.T) {
	h := newTestHAL(200, 40)
	s := newSystem(h, Config{Depth: 0, HUD: true})
	if err := s.safeStep(); err != nil {
		t.Fatalf("step: %v", err)
	}
	text := raster.RGB565(raster.DefaultPalette.Text)
	if h.fb.count(text) == 0 {
		t.Fatal("HUD painted no text")
	}
}

func TestPanicIsRecovered(t *testing.T) {
	h := newTestHAL(120, 40)
	s := newSystem(h, DefaultConfig())
	s.scene = nil

	h.ptr <- hal.PointerEvent{Action: hal.PointerDrag, X: 1, Y: 1}
	err := s.safeStep()
	if !errors.Is(err, ErrPanic) {
		t.Fatalf("safeStep() = %v, want ErrPanic", err)
	}
	if !h.log.contains("gasket panic") {
		t.Fatalf("log = %q, want panic line", h.log.lines)
	}
	if n := h.fb.count(0xFFFF); n < 120*40/2 {
		t.Fatalf("white pixels = %d, want a white panic screen", n)
	}
}

func TestTakeRunes(t *testing.T) {
	head, rest := takeRunes("héllo", 2)
	if head != "hé" || rest != "llo" {
		t.Fatalf("takeRunes = %q, %q", head, rest)
	}
	head, rest = takeRunes("ab", 5)
	if head != "ab" || rest != "" {
		t.Fatalf("takeRunes = %q, %q", head, rest)
	}
}

func TestRunHeadlessEndToEnd(t *testing.T) {
	script, err := hal.ParsePointerScript("p:400,250 d:450,250 d:460,240 r:460,240")
	if err != nil {
		t.Fatalf("ParsePointerScript: %v", err)
	}
	var log bytes.Buffer
	cfg := hal.HeadlessConfig{Hz: 1000, Ticks: 6, Script: script, Log: &log}
	newApp := func(h hal.HAL) func() error {
		return New(h, Config{Depth: 3, Verbose: true})
	}
	if err := hal.RunHeadless(context.Background(), newApp, cfg); err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}

	out := log.String()
	for _, want := range []string{
		"depth=3 (40 triangles) surface=800x500",
		"press 400.0,250.0",
		"drag 450.0,250.0 -> 40 triangles",
		"drag 460.0,240.0 -> 40 triangles",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %q:\n%s", want, out)
		}
	}
}
