//go:build !tinygo && !lgpio && !cgo

package hal

import (
	"context"
	"errors"
)

func RunWindow(_ context.Context, _ func(context.Context, Board)) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
