//go:build !tinygo && !lgpio

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Dump    bool
}

// RunHeadless runs the firmware against the simulated board without
// opening a window. When Dump is set, every panel change prints as
// eight rows of text, which makes scripted smoke runs observable.
func RunHeadless(ctx context.Context, run func(context.Context, Board), cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	b := newSimBoard()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		run(ctx, b)
	}()

	t := time.NewTicker(d)
	defer t.Stop()

	var last [panelRows]uint32
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			cancel()
			<-done
			return ctx.Err()
		case <-t.C:
			bits, _ := b.panel.frame()
			if cfg.Dump && bits != last {
				dumpPanel(b.log, bits)
				last = bits
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				cancel()
				<-done
				return nil
			}
		}
	}
}

func dumpPanel(log *hostLogger, bits [panelRows]uint32) {
	line := make([]byte, panelCols)
	for r := 0; r < panelRows; r++ {
		for c := 0; c < panelCols; c++ {
			if bits[r]&(1<<c) != 0 {
				line[c] = '#'
			} else {
				line[c] = '.'
			}
		}
		log.WriteLineBytes(line)
	}
	log.WriteLineString("")
}
