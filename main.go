package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"gasket/app"
	"gasket/hal"
	"gasket/internal/buildinfo"
)

func main() {
	var (
		headless hal.HeadlessConfig
		window   = hal.WindowConfig{Title: "Sierpinski Triangle"}
		term     bool
		script   string
		version  bool
		cfg      = app.DefaultConfig()
	)
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&script, "script", "", `Pointer events fed one per tick in headless mode, e.g. "p:400,250 d:450,250".`)
	flag.BoolVar(&term, "term", false, "Render into the terminal with half-block cells.")
	flag.IntVar(&window.Width, "width", hal.DefaultWidth, "Surface width in pixels.")
	flag.IntVar(&window.Height, "height", hal.DefaultHeight, "Surface height in pixels.")
	flag.IntVar(&window.Scale, "scale", 1, "Window scale factor.")
	flag.IntVar(&cfg.Depth, "depth", cfg.Depth, fmt.Sprintf("Subdivision depth [0, %d].", app.MaxDepthLimit))
	flag.BoolVar(&cfg.Parallel, "parallel", false, "Expand the three root branches concurrently.")
	flag.BoolVar(&cfg.HUD, "hud", false, "Draw a status line.")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Log every pointer event.")
	flag.BoolVar(&version, "version", false, "Print version and exit.")
	flag.Parse()

	if version {
		fmt.Println(buildinfo.String())
		return
	}
	if err := cfg.Validate(); err != nil {
		fail(err)
	}
	newApp := func(h hal.HAL) func() error { return app.New(h, cfg) }

	switch {
	case headless.Enabled:
		evs, err := hal.ParsePointerScript(script)
		if err != nil {
			fail(err)
		}
		headless.Script = evs
		headless.Width, headless.Height = window.Width, window.Height

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, headless); err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
	case term:
		if err := hal.RunTerminal(newApp, hal.TerminalConfig{}); err != nil {
			fail(err)
		}
	default:
		if err := hal.RunWindow(newApp, window); err != nil {
			fail(err)
		}
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
