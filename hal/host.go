package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Default surface size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 500
)

type hostHAL struct {
	logger *hostLogger
	fb     *hostFramebuffer
	kbd    *hostKeyboard
	ptr    *hostPointer
}

// New returns a host HAL with a width x height framebuffer that logs to
// stdout. Non-positive sizes fall back to the defaults.
func New(width, height int) HAL {
	return newHostHAL(width, height, os.Stdout)
}

func newHostHAL(width, height int, logOut io.Writer) *hostHAL {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	if logOut == nil {
		logOut = io.Discard
	}
	return &hostHAL{
		logger: &hostLogger{w: logOut},
		fb:     newHostFramebuffer(width, height),
		kbd:    newHostKeyboard(),
		ptr:    newHostPointer(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }
func (h *hostHAL) Input() Input     { return hostInput{kbd: h.kbd, ptr: h.ptr} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostInput struct {
	kbd *hostKeyboard
	ptr *hostPointer
}

func (in hostInput) Keyboard() Keyboard { return in.kbd }
func (in hostInput) Pointer() Pointer   { return in.ptr }

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

func validateSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if width > 1<<14 || height > 1<<14 {
		return fmt.Errorf("surface size %dx%d too large", width, height)
	}
	return nil
}
