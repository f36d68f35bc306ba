// Package display implements the render pipeline for the 8x32 LED panel:
// the shared pixel matrix, the glyph and icon tables, the queued layout
// engine with automatic horizontal scrolling, the row-multiplexing
// refresh loop, and the ambient-light backlight control.
package display

import (
	"image/color"
	"sync"

	"tinygo.org/x/drivers"
)

// Panel geometry.
const (
	Rows = 8
	Cols = 32

	// TextStart is the first text column; everything left of it, and all
	// of row 0, belongs to the icons. ViewportEnd is the last column of
	// visible glass; the columns behind it are staging space that glyphs
	// scroll in from.
	TextStart   = 2
	ViewportEnd = 23

	// ViewportWidth is the number of visible text columns.
	ViewportWidth = ViewportEnd - TextStart + 1
)

// textMask covers the text columns of a row word, bit i being column i.
const textMask = ^uint32(0) &^ ((1 << TextStart) - 1)

// Matrix is the pixel state shared by the render side and the refresh
// loop. The lock is held only for plain memory work, never across a
// sleep or a channel operation, so a row copy never waits on a render
// in progress.
//
// A new matrix starts fully lit; the first render replaces the power-on
// pattern.
type Matrix struct {
	mu   sync.Mutex
	rows [Rows]uint32
}

var _ drivers.Displayer = (*Matrix)(nil)

func NewMatrix() *Matrix {
	m := &Matrix{}
	for r := range m.rows {
		m.rows[r] = ^uint32(0)
	}
	return m
}

// Row returns a copy of one row word.
func (m *Matrix) Row(row int) uint32 {
	if row < 0 || row >= Rows {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[row]
}

// Snapshot copies the whole grid out under one lock.
func (m *Matrix) Snapshot() [Rows]uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows
}

// Clear switches every LED off, icons included.
func (m *Matrix) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = [Rows]uint32{}
}

// Fill switches every LED on, icons included.
func (m *Matrix) Fill() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := range m.rows {
		m.rows[r] = ^uint32(0)
	}
}

// clearText blanks the text area and the scroll staging space, leaving
// the icons alone.
func (m *Matrix) clearText() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 1; r < Rows; r++ {
		m.rows[r] &^= textMask
	}
}

// clearTextCols blanks the text columns from..to inclusive.
func (m *Matrix) clearTextCols(from, to int) {
	if from < TextStart {
		from = TextStart
	}
	if to > Cols-1 {
		to = Cols - 1
	}
	if from > to {
		return
	}
	mask := (uint32(1)<<(to-from+1) - 1) << from
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 1; r < Rows; r++ {
		m.rows[r] &^= mask
	}
}

// paintGlyph draws g with its left edge at col and blanks the single gap
// column after it. Columns outside the text area are dropped.
func (m *Matrix) paintGlyph(g Glyph, col int) {
	width := g.Width
	if width <= 0 {
		return
	}
	box := (uint32(1)<<width - 1)
	gap := uint32(0)
	if col+width < Cols {
		gap = uint32(1) << (col + width)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 1; r < Rows; r++ {
		bits := (uint32(g.Bits[r-1]) & box) << col
		mask := (box<<col | gap) & textMask
		m.rows[r] = (m.rows[r] &^ mask) | (bits & textMask)
	}
}

// shiftTextLeft moves the text area one column toward the viewport
// origin. A blank column enters on the right; the icons never move.
func (m *Matrix) shiftTextLeft() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for r := 1; r < Rows; r++ {
		text := (m.rows[r] & textMask) >> 1 & textMask
		m.rows[r] = (m.rows[r] &^ textMask) | text
	}
}

// setIcon switches one icon's LEDs.
func (m *Matrix) setIcon(cell iconCell, on bool) {
	mask := (uint32(1)<<cell.width - 1) << cell.col
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.rows[cell.row] |= mask
	} else {
		m.rows[cell.row] &^= mask
	}
}

// Size implements drivers.Displayer; x is the column count.
func (m *Matrix) Size() (int16, int16) {
	return Cols, Rows
}

// SetPixel implements drivers.Displayer. Any non-black color lights the
// LED at column x, row y.
func (m *Matrix) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || x >= Cols || y < 0 || y >= Rows {
		return
	}
	on := c.R > 0 || c.G > 0 || c.B > 0
	m.mu.Lock()
	defer m.mu.Unlock()
	if on {
		m.rows[y] |= 1 << uint(x)
	} else {
		m.rows[y] &^= 1 << uint(x)
	}
}

// Display implements drivers.Displayer. The refresh loop streams the
// matrix continuously, so there is nothing to flush.
func (m *Matrix) Display() error {
	return nil
}
