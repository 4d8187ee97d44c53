package engine

import "github.com/dshills/multicaret/internal/engine/caret"

// SelectionRects returns the rectangles covering every selection, in
// document coordinates.
func (e *Engine) SelectionRects() []caret.Rect {
	var out []caret.Rect
	for _, r := range e.DisplayCarets().All() {
		out = append(out, r.Rects()...)
	}
	return out
}

// rebuildSelectionCache recomputes the rectangles of every live range.
func (e *Engine) rebuildSelectionCache() {
	for i := range e.carets.Len() {
		e.cacheSelection(e.carets, i)
	}
}

// cacheSelection stores the rectangles of range i of s: one per line it
// spans. A line whose break is selected is extended by one space advance.
func (e *Engine) cacheSelection(s *caret.Set, i int) {
	r := s.At(i)
	if r.IsEmpty() {
		if len(r.Rects()) > 0 {
			s.Update(i, r.WithoutRects())
		}
		return
	}
	lo, hi := r.MinMax()
	h := e.lineHeight
	res := e.resolver
	space := res.Metrics.Advance(res.Font, ' ')

	c := e.store.MustAt(lo.Line)
	content := c.Line().Content
	y := float64(lo.Line) * h
	left := res.ColumnToX(content, lo.Column)
	if lo.Line == hi.Line {
		s.Update(i, r.WithRects([]caret.Rect{{MinX: left, MaxX: res.ColumnToX(content, hi.Column), MinY: y, MaxY: y + h}}))
		return
	}

	rects := make([]caret.Rect, 0, hi.Line-lo.Line+1)
	rects = append(rects, caret.Rect{MinX: left, MaxX: res.LineWidth(content) + space, MinY: y, MaxY: y + h})
	for line := lo.Line + 1; line < hi.Line; line++ {
		c = c.Next()
		y += h
		rects = append(rects, caret.Rect{MaxX: res.LineWidth(c.Line().Content) + space, MinY: y, MaxY: y + h})
	}
	c = c.Next()
	y += h
	rects = append(rects, caret.Rect{MaxX: res.ColumnToX(c.Line().Content, hi.Column), MinY: y, MaxY: y + h})
	s.Update(i, r.WithRects(rects))
}
