package layout

import "github.com/rivo/uniseg"

// Font identifies the font context a Metrics provider measures with.
// The resolver passes it through untouched.
type Font struct {
	Family string
	Size   float64
}

// Metrics supplies glyph measurements.
type Metrics interface {
	// Advance returns the advance width of r.
	Advance(font Font, r rune) float64
	// Kerning returns the horizontal adjustment between a and a following b.
	Kerning(font Font, a, b rune) float64
}

// Monospace measures every glyph as a whole number of fixed-width cells,
// the way a terminal lays text out. Wide characters take two cells and
// zero-width ones none. It never kerns.
type Monospace struct {
	CellWidth float64
}

// Advance returns the display width of r in cells times CellWidth.
func (m Monospace) Advance(_ Font, r rune) float64 {
	return float64(uniseg.StringWidth(string(r))) * m.CellWidth
}

// Kerning always returns 0.
func (m Monospace) Kerning(Font, rune, rune) float64 {
	return 0
}
