package caret

import "fmt"

// Rect is an axis-aligned rectangle in view pixels.
type Rect struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Range is the state of one caret.
// End is where the caret is drawn and where typing happens; Anchor is the
// fixed end of the selection.
type Range struct {
	Anchor   Position
	End      Position
	Baseline float64

	rects []Rect
}

// NewRange creates a range selecting from anchor to end.
func NewRange(anchor, end Position, baseline float64) Range {
	return Range{Anchor: anchor, End: end, Baseline: baseline}
}

// NewCaret creates a plain caret at p.
func NewCaret(p Position, baseline float64) Range {
	return Range{Anchor: p, End: p, Baseline: baseline}
}

// IsEmpty returns true if the range selects nothing.
func (r Range) IsEmpty() bool {
	return r.Anchor == r.End
}

// MinMax returns the lower and upper endpoints.
func (r Range) MinMax() (Position, Position) {
	if r.End.Less(r.Anchor) {
		return r.End, r.Anchor
	}
	return r.Anchor, r.End
}

// Min returns the lower endpoint, the key a Set orders by.
func (r Range) Min() Position {
	lo, _ := r.MinMax()
	return lo
}

// Max returns the upper endpoint.
func (r Range) Max() Position {
	_, hi := r.MinMax()
	return hi
}

// IsForward returns true unless End comes before Anchor.
func (r Range) IsForward() bool {
	return !r.End.Less(r.Anchor)
}

// Contains returns true if p lies within [Min, Max], bounds included.
func (r Range) Contains(p Position) bool {
	lo, hi := r.MinMax()
	return lo.LessEq(p) && p.LessEq(hi)
}

// Collapse returns a plain caret at End with the same baseline.
func (r Range) Collapse() Range {
	return NewCaret(r.End, r.Baseline)
}

// Rects returns the cached selection rectangles.
// The cache is empty for plain carets and for ranges not yet laid out.
func (r Range) Rects() []Rect {
	return r.rects
}

// WithRects returns a copy of the range carrying the given rectangles.
func (r Range) WithRects(rects []Rect) Range {
	r.rects = rects
	return r
}

// WithoutRects returns a copy of the range with an empty rectangle cache.
func (r Range) WithoutRects() Range {
	r.rects = nil
	return r
}

// Equals compares positions and baseline, ignoring the rectangle cache.
func (r Range) Equals(other Range) bool {
	return r.Anchor == other.Anchor && r.End == other.End && r.Baseline == other.Baseline
}

// String returns a string representation of the range.
func (r Range) String() string {
	if r.IsEmpty() {
		return fmt.Sprintf("Caret%s", r.End)
	}
	dir := "→"
	if !r.IsForward() {
		dir = "←"
	}
	return fmt.Sprintf("Range(%s%s%s)", r.Anchor, dir, r.End)
}

// CanMerge reports whether the inserted range a collides with b and, if so,
// returns the range replacing both.
//
// A plain caret inside the other range (bounds included) yields the other
// range unchanged. Spans that are disjoint or only touch do not merge.
// Overlapping selections merge into their union, directed like a.
func CanMerge(a, b Range) (Range, bool) {
	alo, ahi := a.MinMax()
	blo, bhi := b.MinMax()
	if a.IsEmpty() && b.Contains(a.End) {
		return b, true
	}
	if b.IsEmpty() && a.Contains(b.End) {
		return a, true
	}
	if ahi.LessEq(blo) || bhi.LessEq(alo) {
		return Range{}, false
	}
	lo, hi := MinPos(alo, blo), MaxPos(ahi, bhi)
	if a.IsForward() {
		return Range{Anchor: lo, End: hi, Baseline: a.Baseline}, true
	}
	return Range{Anchor: hi, End: lo, Baseline: a.Baseline}, true
}
