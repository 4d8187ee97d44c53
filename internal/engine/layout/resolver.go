package layout

import "math"

// DefaultTabWidth is the number of space advances between tab stops.
const DefaultTabWidth = 4

// Resolver converts between columns and horizontal offsets.
type Resolver struct {
	Metrics  Metrics
	Font     Font
	TabWidth int
}

// NewResolver creates a resolver. A non-positive tab width falls back to
// DefaultTabWidth.
func NewResolver(m Metrics, font Font, tabWidth int) Resolver {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return Resolver{Metrics: m, Font: font, TabWidth: tabWidth}
}

// tabStop returns the distance between tab stops.
func (r Resolver) tabStop() float64 {
	space := r.Metrics.Advance(r.Font, ' ')
	w := float64(r.TabWidth) * space
	if w <= 0 {
		return space
	}
	return w
}

// Iterate returns an iterator over the glyphs of content.
func (r Resolver) Iterate(content []rune) *CharIterator {
	return &CharIterator{content: content, res: r, tab: r.tabStop()}
}

// ColumnToX returns the offset of the caret placed before content[column].
// Columns past the end are clamped.
func (r Resolver) ColumnToX(content []rune, column int) float64 {
	column = min(max(column, 0), len(content))
	it := r.Iterate(content)
	for i := 0; i < column; i++ {
		it.Next()
	}
	return it.NextLeft()
}

// XToColumn returns the column whose caret offset is nearest to x. A point
// exactly halfway across a glyph resolves to the caret after it.
func (r Resolver) XToColumn(content []rune, x float64) int {
	it := r.Iterate(content)
	for i := 0; it.Next(); i++ {
		if x < (it.Left()+it.NextLeft())*0.5 {
			return i
		}
	}
	return len(content)
}

// LineWidth returns the offset of the caret at the end of content.
func (r Resolver) LineWidth(content []rune) float64 {
	return r.ColumnToX(content, len(content))
}

// CharIterator walks the glyphs of a line, tracking their offsets.
type CharIterator struct {
	content []rune
	i       int
	res     Resolver
	tab     float64

	pos, width, nextDiff float64
	cur                  rune
}

// Next advances to the following glyph and returns false at the end.
func (it *CharIterator) Next() bool {
	if it.i >= len(it.content) {
		return false
	}
	it.pos += it.nextDiff
	it.cur = it.content[it.i]
	if it.cur == '\t' && it.tab > 0 {
		it.width = it.tab*(math.Floor(it.pos/it.tab)+1) - it.pos
	} else {
		it.width = it.res.Metrics.Advance(it.res.Font, it.cur)
	}
	it.i++
	it.nextDiff = it.width
	if it.i < len(it.content) {
		it.nextDiff += it.res.Metrics.Kerning(it.res.Font, it.cur, it.content[it.i])
	}
	it.nextDiff = math.Round(it.nextDiff)
	return true
}

// Rune returns the current glyph's codepoint.
func (it *CharIterator) Rune() rune {
	return it.cur
}

// Left returns the current glyph's left edge.
func (it *CharIterator) Left() float64 {
	return it.pos
}

// Right returns the current glyph's right edge before kerning.
func (it *CharIterator) Right() float64 {
	return it.pos + it.width
}

// NextLeft returns the left edge of the following glyph, which is also the
// caret offset after the current one.
func (it *CharIterator) NextLeft() float64 {
	return it.pos + it.nextDiff
}
