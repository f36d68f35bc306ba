package display

import (
	"testing"
	"time"
)

func TestIconCellsStayInIconArea(t *testing.T) {
	for ic := Icon(0); ic < iconCount; ic++ {
		cell := iconCells[ic]
		if cell.width < 1 || cell.width > 2 {
			t.Errorf("%s: width %d out of range [1,2]", ic, cell.width)
		}
		if cell.row < 0 || cell.row >= Rows {
			t.Errorf("%s: row %d out of range", ic, cell.row)
		}
		if cell.col < 0 || cell.col+cell.width > Cols {
			t.Errorf("%s: columns %d..%d out of range", ic, cell.col, cell.col+cell.width-1)
		}
		// Icons own the top row and the two leftmost columns; nothing
		// else, or they would collide with text.
		for c := cell.col; c < cell.col+cell.width; c++ {
			if cell.row != 0 && c >= TextStart {
				t.Errorf("%s: cell (%d,%d) inside the text area", ic, cell.row, c)
			}
		}
	}
}

func TestIconCellsDoNotOverlap(t *testing.T) {
	var used [Rows][Cols]bool
	for ic := Icon(0); ic < iconCount; ic++ {
		cell := iconCells[ic]
		for c := cell.col; c < cell.col+cell.width; c++ {
			if used[cell.row][c] {
				t.Errorf("%s: cell (%d,%d) already owned by another icon", ic, cell.row, c)
			}
			used[cell.row][c] = true
		}
	}
}

func TestIconForWeekdayCoversWeek(t *testing.T) {
	want := map[time.Weekday]Icon{
		time.Monday:    IconMon,
		time.Tuesday:   IconTue,
		time.Wednesday: IconWed,
		time.Thursday:  IconThu,
		time.Friday:    IconFri,
		time.Saturday:  IconSat,
		time.Sunday:    IconSun,
	}
	for d, ic := range want {
		if got := IconForWeekday(d); got != ic {
			t.Errorf("IconForWeekday(%s) = %s, want %s", d, got, ic)
		}
	}
}
