//go:build !tinygo && !lgpio

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"glint/app"
	"glint/hal"
)

func main() {
	var cfg hal.HeadlessConfig
	flag.BoolVar(&cfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&cfg.Hz, "hz", 30, "Panel sample rate in headless mode.")
	flag.Uint64Var(&cfg.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.BoolVar(&cfg.Dump, "dump", true, "Print the panel on change in headless mode.")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := func(ctx context.Context, b hal.Board) { app.New(b).Run(ctx) }

	var err error
	if cfg.Enabled {
		err = hal.RunHeadless(ctx, run, cfg)
		if errors.Is(err, context.Canceled) {
			return
		}
	} else {
		err = hal.RunWindow(ctx, run)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
