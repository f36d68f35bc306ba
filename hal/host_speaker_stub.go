//go:build !tinygo && !lgpio && !cgo

package hal

// newHostBuzzer falls back to log lines when the audio backend is not
// available without cgo.
func newHostBuzzer(log *hostLogger) Buzzer {
	return &logBuzzer{log: log}
}
