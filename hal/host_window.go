//go:build cgo

package hal

import (
	"errors"
	"image"
	"os"

	"gasket/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Title  string
	Width  int
	Height int
	// Scale multiplies the initial window size; the surface keeps its size.
	Scale int
}

// RunWindow opens a desktop window that displays the framebuffer and
// forwards mouse, touch and keyboard input. It blocks until the window
// closes or the app step returns ErrStop.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if err := validateSize(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if cfg.Scale <= 0 {
		cfg.Scale = 1
	}
	if cfg.Title == "" {
		cfg.Title = "Sierpinski Triangle"
	}

	h := newHostHAL(cfg.Width, cfg.Height, os.Stdout)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h    *hostHAL
	step func() error

	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	shown   uint64

	touch touchTracker
}

func (g *hostGame) Update() error {
	pollKeyboard(g.h.kbd)
	pollPointer(g.h.ptr, &g.touch)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.shown = 0
	}

	if n := fb.snapshotRGB565(g.scratch); n != g.shown || n == 0 {
		g.shown = n
		expandRGBA(g.img.Pix, g.scratch)
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
