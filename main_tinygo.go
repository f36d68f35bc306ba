//go:build tinygo

package main

import (
	"context"

	"glint/app"
	"glint/hal"
)

func main() {
	app.New(hal.New()).Run(context.Background())
}
