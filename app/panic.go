package app

import (
	"errors"
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"gasket/fractal/raster"
)

// ErrPanic wraps a panic recovered from the step function.
var ErrPanic = errors.New("gasket panic")

// panicLineHeight is the HUD font's line advance in pixels.
const panicLineHeight = 7

// safeStep runs step and turns a panic into ErrPanic after logging the stack
// and painting it onto the framebuffer.
func (s *system) safeStep() (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		stack := debug.Stack()
		s.logf("gasket panic: %v", v)
		for _, line := range strings.Split(string(stack), "\n") {
			if line != "" {
				s.logf("%s", line)
			}
		}
		s.paintPanic(v, stack)
		err = fmt.Errorf("%w: %v", ErrPanic, v)
	}()
	return s.step()
}

func (s *system) paintPanic(v any, stack []byte) {
	if s.display == nil || s.painter == nil {
		return
	}
	t := s.painter.T
	t.Clear(color.RGBA{R: 255, G: 255, B: 255, A: 255})

	lines := []string{"gasket panic:", fmt.Sprintf("%v", v)}
	if len(stack) > 0 {
		lines = append(lines, "stack:")
		for _, line := range strings.Split(string(stack), "\n") {
			if line != "" {
				lines = append(lines, strings.ReplaceAll(line, "\t", "  "))
			}
		}
	} else {
		lines = append(lines, "stack: unavailable")
	}

	w, h := t.Size()
	cols := w / max(1, raster.TextWidth("0"))
	if cols <= 0 {
		cols = 1
	}

	fg := color.RGBA{R: 0, G: 0, B: 0, A: 255}
	y := panicLineHeight
	for _, line := range lines {
		for len(line) > 0 && y <= h {
			chunk, rest := takeRunes(line, cols)
			s.display.DrawText(0, y, chunk, fg)
			y += panicLineHeight
			line = strings.TrimLeft(rest, " ")
		}
		if y > h {
			break
		}
	}
	_ = s.display.Display()
}

// takeRunes splits s after at most n runes.
func takeRunes(s string, n int) (string, string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if utf8.RuneCountInString(s) <= n {
		return s, ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}
