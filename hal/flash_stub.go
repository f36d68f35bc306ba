//go:build tinygo && !rp2040 && !rp2350

package hal

// stubFlash serves targets without a supported flash peripheral. The
// settings store falls back to defaults when every call errors.
type stubFlash struct{}

func newBoardFlash() Flash { return stubFlash{} }

func (stubFlash) SizeBytes() uint32       { return 0 }
func (stubFlash) EraseBlockBytes() uint32 { return 0 }

func (stubFlash) ReadAt(p []byte, off uint32) (int, error) {
	return 0, ErrNotImplemented
}

func (stubFlash) WriteAt(p []byte, off uint32) (int, error) {
	return 0, ErrNotImplemented
}

func (stubFlash) Erase(off, size uint32) error {
	return ErrNotImplemented
}
