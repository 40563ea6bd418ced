package hal

const inputQueueLen = 64

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, inputQueueLen)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// emit queues ev, dropping it if the queue is full.
func (k *hostKeyboard) emit(ev KeyEvent) {
	select {
	case k.ch <- ev:
	default:
	}
}

type hostPointer struct {
	ch chan PointerEvent

	down         bool
	lastX, lastY float64
}

func newHostPointer() *hostPointer {
	return &hostPointer{ch: make(chan PointerEvent, inputQueueLen)}
}

func (p *hostPointer) Events() <-chan PointerEvent { return p.ch }

func (p *hostPointer) emit(ev PointerEvent) {
	select {
	case p.ch <- ev:
	default:
	}
}

// track turns a sampled button state and position into press, drag and
// release events. Runners call it once per input sample.
func (p *hostPointer) track(held bool, x, y float64) {
	switch {
	case held && !p.down:
		p.down = true
		p.lastX, p.lastY = x, y
		p.emit(PointerEvent{Action: PointerPress, X: x, Y: y})
	case held && p.down:
		if x == p.lastX && y == p.lastY {
			return
		}
		p.lastX, p.lastY = x, y
		p.emit(PointerEvent{Action: PointerDrag, X: x, Y: y})
	case !held && p.down:
		p.down = false
		p.emit(PointerEvent{Action: PointerRelease, X: x, Y: y})
	}
}
