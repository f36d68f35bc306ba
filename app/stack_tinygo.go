//go:build tinygo

package app

// The embedded runtime does not expose goroutine stacks; the panic
// report carries the value only.
func captureStack() []byte {
	return nil
}
