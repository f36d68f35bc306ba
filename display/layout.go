package display

// glyphPlace is one glyph's slot in a paint plan: the physical column it
// is painted at and the left shifts that follow it.
type glyphPlace struct {
	col    int
	shifts int
}

// plan is the scroll trajectory of one request, computed up front so the
// timed walk through it is a straight replay.
type plan struct {
	places   []glyphPlace
	width    int  // strip width, inter-glyph gap columns included
	fits     bool // content rests inside the viewport without shifting
	offSteps int  // shifts that empty the viewport during scroll-off
}

// planLayout lays glyph widths out left to right from origin. A glyph
// whose right edge would pass the viewport edge is painted in the
// staging columns and immediately walked left until that edge sits on
// the viewport edge again. Summed over a strip wider than the viewport
// this gives exactly width-viewport paint-in shifts; the walk keeps
// every paint inside the grid because the staging space outlasts the
// widest glyph plus its gap column.
func planLayout(widths []int, origin int) plan {
	p := plan{places: make([]glyphPlace, len(widths))}
	offset := origin
	shifts := 0
	for i, w := range widths {
		col := offset - shifts
		s := 0
		if right := col + w - 1; right > ViewportEnd {
			s = right - ViewportEnd
		}
		p.places[i] = glyphPlace{col: col, shifts: s}
		shifts += s
		offset += w + 1
	}
	if len(widths) > 0 {
		p.width = offset - origin - 1
	}
	p.fits = shifts == 0
	p.offSteps = origin + p.width - shifts - TextStart
	if p.offSteps < 0 {
		p.offSteps = 0
	}
	return p
}

// rightAlignedOrigin places a strip of the given total width so that it
// ends at endCol, clamped to the text area. Strips wider than the window
// fall back to the viewport origin and scroll instead.
func rightAlignedOrigin(width, endCol int) int {
	origin := endCol - width + 1
	if origin < TextStart {
		origin = TextStart
	}
	return origin
}

// stripWidth is the total width of a glyph sequence including the single
// blank column between neighbours.
func stripWidth(glyphs []Glyph) int {
	w := 0
	for i, g := range glyphs {
		if i > 0 {
			w++
		}
		w += g.Width
	}
	return w
}
