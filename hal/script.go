package hal

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePointerScript parses a whitespace-separated list of pointer events for
// headless runs. Each item is ACTION:X,Y where ACTION is p (press),
// d (drag) or r (release), e.g. "p:400,250 d:450,250". Items contain no
// whitespace, so "d:1, 2" is rejected.
func ParsePointerScript(s string) ([]PointerEvent, error) {
	fields := strings.Fields(s)
	out := make([]PointerEvent, 0, len(fields))
	for i, f := range fields {
		ev, err := parsePointerItem(f)
		if err != nil {
			return nil, fmt.Errorf("script item %d %q: %w", i+1, f, err)
		}
		out = append(out, ev)
	}
	return out, nil
}

func parsePointerItem(f string) (PointerEvent, error) {
	act, xy, ok := strings.Cut(f, ":")
	if !ok {
		return PointerEvent{}, fmt.Errorf("missing ':'")
	}

	var ev PointerEvent
	switch strings.ToLower(act) {
	case "p", "press":
		ev.Action = PointerPress
	case "d", "drag":
		ev.Action = PointerDrag
	case "r", "release":
		ev.Action = PointerRelease
	default:
		return PointerEvent{}, fmt.Errorf("unknown action %q", act)
	}

	xs, ys, ok := strings.Cut(xy, ",")
	if !ok {
		return PointerEvent{}, fmt.Errorf("want X,Y")
	}
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return PointerEvent{}, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return PointerEvent{}, fmt.Errorf("y: %w", err)
	}
	ev.X, ev.Y = x, y
	return ev, nil
}
