//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"machine"
)

// boardFlash exposes the RP2 on-chip QSPI flash through machine.Flash.
// Offsets are relative to the data area the runtime reserves past the
// program image, which is where the settings record lives.
type boardFlash struct{}

func newBoardFlash() Flash {
	return boardFlash{}
}

func clampU32(v int64) uint32 {
	if v <= 0 {
		return 0
	}
	if v > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(v)
}

func (boardFlash) SizeBytes() uint32 {
	return clampU32(machine.Flash.Size())
}

func (boardFlash) EraseBlockBytes() uint32 {
	return clampU32(machine.Flash.EraseBlockSize())
}

func (boardFlash) ReadAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.ReadAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash read at %d: %w", off, err)
	}
	return n, nil
}

func (boardFlash) WriteAt(p []byte, off uint32) (int, error) {
	n, err := machine.Flash.WriteAt(p, int64(off))
	if err != nil {
		return n, fmt.Errorf("flash write at %d: %w", off, err)
	}
	return n, nil
}

func (boardFlash) Erase(off, size uint32) error {
	if size == 0 {
		return nil
	}
	bs := boardFlash{}.EraseBlockBytes()
	if bs == 0 {
		return ErrNotImplemented
	}
	if off%bs != 0 || size%bs != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: not block aligned", off, size)
	}
	return machine.Flash.EraseBlocks(int64(off/bs), int64(size/bs))
}
