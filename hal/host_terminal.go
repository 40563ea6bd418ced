package hal

import (
	"errors"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
)

// TerminalConfig controls the terminal runner.
type TerminalConfig struct {
	// Log receives logger output; nil discards it so the screen stays clean.
	Log io.Writer
}

// RunTerminal runs the app inside the current terminal.
//
// Each character cell shows two framebuffer pixels stacked with an upper
// half block, so the surface is cols x 2*rows pixels. The left mouse button
// drives the pointer; Escape and Ctrl-C quit.
func RunTerminal(newApp func(HAL) func() error, cfg TerminalConfig) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer s.Fini()
	s.EnableMouse()
	s.HideCursor()

	cols, rows := s.Size()
	if err := validateSize(cols, rows*2); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}

	h := newHostHAL(cols, rows*2, cfg.Log)
	step := newApp(h)
	scratch := make([]byte, len(h.fb.buf))

	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			h.kbd.emit(translateKey(ev.Key(), ev.Rune()))
		case *tcell.EventMouse:
			x, y := ev.Position()
			held := ev.Buttons()&tcell.Button1 != 0
			h.ptr.track(held, float64(x), float64(y*2))
		}

		if step != nil {
			if err := step(); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
		h.fb.snapshotRGB565(scratch)
		blitHalfBlocks(s, scratch, h.fb.width, h.fb.height, h.fb.stride)
		s.Show()
	}
}

func translateKey(k tcell.Key, r rune) KeyEvent {
	switch k {
	case tcell.KeyEscape:
		return KeyEvent{Code: KeyEscape, Press: true}
	case tcell.KeyEnter:
		return KeyEvent{Code: KeyEnter, Press: true}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return KeyEvent{Code: KeyBackspace, Press: true}
	case tcell.KeyRune:
		return KeyEvent{Press: true, Rune: r}
	default:
		return KeyEvent{Code: KeyUnknown, Press: true}
	}
}

// cellSetter is the part of tcell.Screen the blitter writes to.
type cellSetter interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
}

// blitHalfBlocks paints pixel rows 2y (foreground) and 2y+1 (background)
// into cell row y.
func blitHalfBlocks(s cellSetter, buf []byte, width, height, stride int) {
	for cy := 0; cy*2 < height; cy++ {
		top := cy * 2 * stride
		bottom := top + stride
		for cx := 0; cx < width; cx++ {
			tr, tg, tb := rgb888At(buf, top+cx*2)
			br, bg, bb := uint8(0), uint8(0), uint8(0)
			if cy*2+1 < height {
				br, bg, bb = rgb888At(buf, bottom+cx*2)
			}
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb))).
				Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))
			s.SetContent(cx, cy, '▀', nil, style)
		}
	}
}
