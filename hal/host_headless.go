package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled    bool
	Hz         int
	Ticks      uint64
	StepBudget int
	Width      int
	Height     int

	// Script is fed to the pointer, one event per tick, before the step runs.
	Script []PointerEvent
	// Log receives logger output; nil means stdout.
	Log io.Writer
}

// RunHeadless runs the app without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = 1
	}
	if cfg.Width == 0 && cfg.Height == 0 {
		cfg.Width, cfg.Height = DefaultWidth, DefaultHeight
	}
	if err := validateSize(cfg.Width, cfg.Height); err != nil {
		return err
	}
	if cfg.Log == nil {
		cfg.Log = os.Stdout
	}

	h := newHostHAL(cfg.Width, cfg.Height, cfg.Log)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	script := cfg.Script
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if len(script) > 0 {
				h.ptr.emit(script[0])
				script = script[1:]
			}
			for i := 0; i < cfg.StepBudget && step != nil; i++ {
				if err := step(); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
