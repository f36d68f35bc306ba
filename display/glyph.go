package display

// Glyph is one character cell of the panel font: a pixel width and one
// bitmask per text row. Bit i of a mask holds column i of the cell, so
// the leftmost column lives in the low bit.
type Glyph struct {
	Width int
	Bits  [7]uint8
}

// glyphs is the panel font. Cells are 1 to 5 columns wide and rows 1..7
// of the panel tall. The apostrophe and comma are the half-colon cells
// used for the alternating colon style; they share the colon's width so
// swapping them never moves the surrounding digits.
var glyphs = map[rune]Glyph{
	'0': {4, [7]uint8{0x06, 0x09, 0x09, 0x09, 0x09, 0x09, 0x06}},
	'1': {4, [7]uint8{0x04, 0x06, 0x04, 0x04, 0x04, 0x04, 0x0E}},
	'2': {4, [7]uint8{0x06, 0x09, 0x08, 0x04, 0x02, 0x01, 0x0F}},
	'3': {4, [7]uint8{0x06, 0x09, 0x08, 0x06, 0x08, 0x09, 0x06}},
	'4': {4, [7]uint8{0x08, 0x0C, 0x0A, 0x09, 0x0F, 0x08, 0x08}},
	'5': {4, [7]uint8{0x0F, 0x01, 0x07, 0x08, 0x08, 0x09, 0x06}},
	'6': {4, [7]uint8{0x04, 0x02, 0x01, 0x07, 0x09, 0x09, 0x06}},
	'7': {4, [7]uint8{0x0F, 0x09, 0x04, 0x04, 0x04, 0x04, 0x04}},
	'8': {4, [7]uint8{0x06, 0x09, 0x09, 0x06, 0x09, 0x09, 0x06}},
	'9': {4, [7]uint8{0x06, 0x09, 0x09, 0x0E, 0x08, 0x04, 0x02}},
	'A': {4, [7]uint8{0x06, 0x09, 0x09, 0x0F, 0x09, 0x09, 0x09}},
	'B': {4, [7]uint8{0x07, 0x09, 0x09, 0x07, 0x09, 0x09, 0x07}},
	'C': {4, [7]uint8{0x06, 0x09, 0x01, 0x01, 0x01, 0x09, 0x06}},
	'D': {4, [7]uint8{0x07, 0x09, 0x09, 0x09, 0x09, 0x09, 0x07}},
	'E': {4, [7]uint8{0x0F, 0x01, 0x01, 0x0F, 0x01, 0x01, 0x0F}},
	'F': {4, [7]uint8{0x0F, 0x01, 0x01, 0x0F, 0x01, 0x01, 0x01}},
	'G': {4, [7]uint8{0x06, 0x09, 0x01, 0x0D, 0x09, 0x09, 0x06}},
	'H': {4, [7]uint8{0x09, 0x09, 0x09, 0x0F, 0x09, 0x09, 0x09}},
	'I': {3, [7]uint8{0x07, 0x02, 0x02, 0x02, 0x02, 0x02, 0x07}},
	'J': {4, [7]uint8{0x0F, 0x08, 0x08, 0x08, 0x09, 0x09, 0x06}},
	'K': {4, [7]uint8{0x09, 0x05, 0x03, 0x01, 0x03, 0x05, 0x09}},
	'L': {4, [7]uint8{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x0F}},
	'M': {5, [7]uint8{0x11, 0x1B, 0x15, 0x11, 0x11, 0x11, 0x11}},
	'N': {4, [7]uint8{0x09, 0x09, 0x0B, 0x0D, 0x09, 0x09, 0x09}},
	'O': {4, [7]uint8{0x06, 0x09, 0x09, 0x09, 0x09, 0x09, 0x06}},
	'P': {4, [7]uint8{0x07, 0x09, 0x09, 0x07, 0x01, 0x01, 0x01}},
	'Q': {5, [7]uint8{0x0E, 0x11, 0x11, 0x11, 0x15, 0x19, 0x0E}},
	'R': {4, [7]uint8{0x07, 0x09, 0x09, 0x07, 0x03, 0x05, 0x09}},
	'S': {4, [7]uint8{0x06, 0x09, 0x02, 0x04, 0x08, 0x09, 0x06}},
	'T': {5, [7]uint8{0x1F, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04}},
	'U': {4, [7]uint8{0x09, 0x09, 0x09, 0x09, 0x09, 0x09, 0x06}},
	'X': {5, [7]uint8{0x11, 0x0A, 0x04, 0x04, 0x04, 0x0A, 0x11}},
	'Y': {4, [7]uint8{0x1F, 0x04, 0x04, 0x04, 0x04, 0x04, 0x04}},
	'Z': {4, [7]uint8{0x0F, 0x08, 0x04, 0x02, 0x01, 0x0F, 0x00}},
	':': {2, [7]uint8{0x00, 0x03, 0x03, 0x00, 0x03, 0x03, 0x00}},
	'\'': {2, [7]uint8{0x00, 0x03, 0x03, 0x00, 0x00, 0x00, 0x00}},
	',': {2, [7]uint8{0x00, 0x00, 0x00, 0x00, 0x03, 0x03, 0x00}},
	' ': {2, [7]uint8{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	'°': {2, [7]uint8{0x03, 0x03, 0x00, 0x00, 0x00, 0x00, 0x00}},
	'.': {1, [7]uint8{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}},
	'-': {2, [7]uint8{0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00}},
	'/': {2, [7]uint8{0x02, 0x02, 0x02, 0x01, 0x01, 0x01, 0x01}},
}

// glyphFor resolves c against the font, folding lower-case letters up.
func glyphFor(c rune) (Glyph, bool) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	g, ok := glyphs[c]
	return g, ok
}
