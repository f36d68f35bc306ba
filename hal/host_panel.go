//go:build !tinygo && !lgpio

package hal

import (
	"sync"
	"time"
)

const (
	panelRows = 8
	panelCols = 32
)

// hostPanel rebuilds the LED matrix from the seven control lines the
// refresh loop wiggles, the same way the driver chain does: a CLK
// rising edge shifts SDI into a 32-bit register, the LE falling edge
// latches it onto the column drivers, A0..A2 pick the row and OE low
// lights it. Lit time accumulates per pixel so the window can show the
// strobed panel at the brightness an eye would see.
type hostPanel struct {
	mu sync.Mutex

	shift uint32
	latch uint32
	row   int
	sdi   bool
	clk   bool
	le    bool
	oe    bool // active low, true is dark

	litSince time.Time
	lit      [panelRows][panelCols]time.Duration
	since    time.Time
}

func newHostPanel() *hostPanel {
	return &hostPanel{oe: true, since: time.Now()}
}

type panelLine uint8

const (
	lineA0 panelLine = iota
	lineA1
	lineA2
	lineOE
	lineSDI
	lineCLK
	lineLE
)

type panelPin struct {
	p    *hostPanel
	line panelLine
}

func (pp panelPin) Set(level bool) { pp.p.write(pp.line, level) }

func (p *hostPanel) Pins() PanelPins {
	return PanelPins{
		A0:  panelPin{p, lineA0},
		A1:  panelPin{p, lineA1},
		A2:  panelPin{p, lineA2},
		OE:  panelPin{p, lineOE},
		SDI: panelPin{p, lineSDI},
		CLK: panelPin{p, lineCLK},
		LE:  panelPin{p, lineLE},
	}
}

func (p *hostPanel) write(line panelLine, level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch line {
	case lineSDI:
		p.sdi = level
	case lineCLK:
		if level && !p.clk {
			// The first bit shifted in travels to the far end of the
			// chain, so after 32 clocks it sits at bit zero again.
			p.shift >>= 1
			if p.sdi {
				p.shift |= 1 << (panelCols - 1)
			}
		}
		p.clk = level
	case lineLE:
		if !level && p.le {
			p.closeOpen()
			p.latch = p.shift
		}
		p.le = level
	case lineA0:
		p.setRowBit(0, level)
	case lineA1:
		p.setRowBit(1, level)
	case lineA2:
		p.setRowBit(2, level)
	case lineOE:
		if level == p.oe {
			return
		}
		if level {
			p.closeOpen()
		} else {
			p.litSince = time.Now()
		}
		p.oe = level
	}
}

func (p *hostPanel) setRowBit(bit uint, level bool) {
	p.closeOpen()
	if level {
		p.row |= 1 << bit
	} else {
		p.row &^= 1 << bit
	}
}

// closeOpen banks the running lit interval against the current row and
// latch word. Callers change either only after this.
func (p *hostPanel) closeOpen() {
	if p.oe {
		return
	}
	now := time.Now()
	d := now.Sub(p.litSince)
	p.litSince = now
	if d <= 0 {
		return
	}
	for c := 0; c < panelCols; c++ {
		if p.latch&(1<<c) != 0 {
			p.lit[p.row][c] += d
		}
	}
}

// frame returns the pixels that lit up since the last call, and the
// fraction of the interval each spent on, scaled so a pixel lit on
// every scan reads 1. The accumulators reset, so each call covers one
// display frame.
func (p *hostPanel) frame() (bits [panelRows]uint32, duty [panelRows][panelCols]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeOpen()
	now := time.Now()
	elapsed := now.Sub(p.since)
	p.since = now
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}

	for r := range p.lit {
		for c := range p.lit[r] {
			d := p.lit[r][c]
			if d == 0 {
				continue
			}
			p.lit[r][c] = 0
			bits[r] |= 1 << c
			f := float32(d) / float32(elapsed) * panelRows
			if f > 1 {
				f = 1
			}
			duty[r][c] = f
		}
	}
	return bits, duty
}
