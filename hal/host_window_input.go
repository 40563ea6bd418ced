//go:build cgo

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

func pollKeyboard(k *hostKeyboard) {
	for _, r := range ebiten.AppendInputChars(nil) {
		k.emit(KeyEvent{Press: true, Rune: r})
	}

	keys := []struct {
		key  ebiten.Key
		code KeyCode
	}{
		{ebiten.KeyEnter, KeyEnter},
		{ebiten.KeyEscape, KeyEscape},
		{ebiten.KeyBackspace, KeyBackspace},
	}
	for _, kk := range keys {
		if inpututil.IsKeyJustPressed(kk.key) {
			k.emit(KeyEvent{Code: kk.code, Press: true})
		}
		if inpututil.IsKeyJustReleased(kk.key) {
			k.emit(KeyEvent{Code: kk.code, Press: false})
		}
	}
}

// touchTracker follows the first touch until it lifts.
type touchTracker struct {
	id     ebiten.TouchID
	active bool
}

// pollPointer samples the left mouse button, or the tracked touch when the
// mouse is idle, and feeds the result to p.track.
func pollPointer(p *hostPointer, t *touchTracker) {
	if !t.active && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.track(true, float64(x), float64(y))
		return
	}
	if !t.active && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		p.track(false, float64(x), float64(y))
		return
	}

	if !t.active {
		ids := inpututil.AppendJustPressedTouchIDs(nil)
		if len(ids) == 0 {
			return
		}
		t.id = ids[0]
		t.active = true
	}

	x, y := ebiten.TouchPosition(t.id)
	if inpututil.IsTouchJustReleased(t.id) {
		t.active = false
		x, y = inpututil.TouchPositionInPreviousTick(t.id)
		p.track(false, float64(x), float64(y))
		return
	}
	p.track(true, float64(x), float64(y))
}
