//go:build !tinygo && lgpio

package main

import (
	"context"
	"os"
	"os/signal"

	"glint/app"
	"glint/hal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app.New(hal.New()).Run(ctx)
}
