package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var ErrNotImplemented = errors.New("not implemented")

// ErrStop is returned by an app step to end the run cleanly.
var ErrStop = errors.New("stop")

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEnter
	KeyEscape
	KeyBackspace
)

// KeyEvent is a keyboard event.
type KeyEvent struct {
	Code  KeyCode
	Press bool
	Rune  rune
}

// Keyboard provides key events (best-effort on each platform).
type Keyboard interface {
	Events() <-chan KeyEvent
}

// PointerAction is what happened to the primary pointer.
type PointerAction uint8

const (
	PointerPress PointerAction = iota + 1
	PointerDrag
	PointerRelease
)

func (a PointerAction) String() string {
	switch a {
	case PointerPress:
		return "press"
	case PointerDrag:
		return "drag"
	case PointerRelease:
		return "release"
	default:
		return "unknown"
	}
}

// PointerEvent is a primary-button mouse or touch event in framebuffer
// pixel coordinates.
type PointerEvent struct {
	Action PointerAction
	X, Y   float64
}

// Pointer provides pointer events. Drags are reported only while the
// button is held and the position changed.
type Pointer interface {
	Events() <-chan PointerEvent
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// Input provides access to input devices (if available).
type Input interface {
	Keyboard() Keyboard
	Pointer() Pointer
}

// HAL provides the only contact point between the app and the host.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
