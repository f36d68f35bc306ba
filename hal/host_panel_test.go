//go:build !tinygo && !lgpio

package hal

import (
	"testing"
	"time"
)

func shiftWord(pins PanelPins, word uint32) {
	for c := 0; c < panelCols; c++ {
		pins.SDI.Set(word&(1<<c) != 0)
		pins.CLK.Set(true)
		pins.CLK.Set(false)
	}
}

func latchWord(pins PanelPins) {
	pins.LE.Set(true)
	pins.LE.Set(false)
}

func selectRow(pins PanelPins, row int) {
	pins.A0.Set(row&1 != 0)
	pins.A1.Set(row&2 != 0)
	pins.A2.Set(row&4 != 0)
}

func lightFor(pins PanelPins, d time.Duration) {
	pins.OE.Set(false)
	time.Sleep(d)
	pins.OE.Set(true)
}

func TestHostPanelRebuildsRow(t *testing.T) {
	p := newHostPanel()
	pins := p.Pins()

	word := uint32(1)<<0 | 1<<5 | 1<<31
	shiftWord(pins, word)
	latchWord(pins)
	selectRow(pins, 3)
	lightFor(pins, 5*time.Millisecond)

	bits, duty := p.frame()
	for r := 0; r < panelRows; r++ {
		want := uint32(0)
		if r == 3 {
			want = word
		}
		if bits[r] != want {
			t.Fatalf("row %d: bits %#08x, want %#08x", r, bits[r], want)
		}
	}
	// A pixel lit for most of the frame reads near full duty.
	for _, c := range []int{0, 5, 31} {
		if duty[3][c] < 0.5 {
			t.Fatalf("col %d: duty %f, want >= 0.5", c, duty[3][c])
		}
	}
	if duty[3][1] != 0 {
		t.Fatalf("col 1: duty %f, want 0", duty[3][1])
	}

	bits, _ = p.frame()
	for r, b := range bits {
		if b != 0 {
			t.Fatalf("row %d lit after reset: %#08x", r, b)
		}
	}
}

func TestHostPanelLatchGatesShift(t *testing.T) {
	p := newHostPanel()
	pins := p.Pins()
	selectRow(pins, 0)

	first := uint32(0x00FF)
	shiftWord(pins, first)
	latchWord(pins)
	lightFor(pins, 3*time.Millisecond)
	bits, _ := p.frame()
	if bits[0] != first {
		t.Fatalf("bits %#08x, want %#08x", bits[0], first)
	}

	// Clocking a new word in must not disturb the displayed one until
	// the latch falls.
	second := uint32(0xFF00)
	shiftWord(pins, second)
	lightFor(pins, 3*time.Millisecond)
	bits, _ = p.frame()
	if bits[0] != first {
		t.Fatalf("bits %#08x after clocks, want %#08x", bits[0], first)
	}

	latchWord(pins)
	lightFor(pins, 3*time.Millisecond)
	bits, _ = p.frame()
	if bits[0] != second {
		t.Fatalf("bits %#08x after latch, want %#08x", bits[0], second)
	}
}
