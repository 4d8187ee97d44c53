package engine

import (
	"slices"

	"github.com/dshills/multicaret/internal/engine/caret"
	"github.com/dshills/multicaret/internal/engine/lines"
)

// Modifier is an edit transaction. It visits carets in ascending position
// order; at each one the caller applies operations, then calls Next.
//
// Positions of carets not visited yet are shifted by the change made so
// far: lineDelta is added to their line and columnDelta to their column
// when they land on lastLine, the line the previous edit finished on.
type Modifier struct {
	e *Engine

	live   []caret.Range
	next   int
	newSet *caret.Set

	// current caret, ordered; endIsMin is true when the caret's end is at
	// lo rather than hi
	lo, hi   Position
	endIsMin bool
	baseline float64

	line      lines.Cursor // cursor at lastLine
	lastLine  int
	lineDelta int
	colDelta  int

	oldCount   int
	structFrom int
	modified   bool
	ended      bool
}

// Begin opens a transaction over the live carets, positioned at the first
// one. Only one transaction may be open per engine; a second Begin panics
// with ErrInvariantViolation. A selection being dragged out with the mouse
// is committed first.
func (e *Engine) Begin() *Modifier {
	m := e.open()
	m.live = e.carets.Ranges()
	first := m.live[0]
	m.next = 1
	m.switchTo(first.Anchor, first.End, first.Baseline)
	return m
}

// BeginAt opens a manual transaction: the live carets are dropped and the
// transaction starts at the given caret instead. Further carets are fed
// with NextAt, and End must be called.
func (e *Engine) BeginAt(anchor, end Position, baseline float64) *Modifier {
	m := e.open()
	m.switchTo(e.clampPosition(anchor), e.clampPosition(end), baseline)
	return m
}

func (e *Engine) open() *Modifier {
	if e.active != nil {
		panic(violation("nested edit transaction", ErrTransactionActive))
	}
	if e.state == StateSelecting {
		e.commitSelection()
	}
	m := &Modifier{
		e:          e,
		newSet:     caret.Empty(),
		line:       e.store.Begin(),
		oldCount:   e.store.LineCount(),
		structFrom: -1,
	}
	e.active = m
	return m
}

// Done returns true once the transaction has ended.
func (m *Modifier) Done() bool {
	return m.ended
}

// Next commits the current caret and moves to the following live one,
// ending the transaction after the last.
func (m *Modifier) Next() {
	if m.ended {
		return
	}
	if m.next >= len(m.live) {
		m.End()
		return
	}
	r := m.live[m.next]
	m.next++
	m.appendCurrent()
	m.switchTo(m.fixup(r.Anchor), m.fixup(r.End), r.Baseline)
}

// NextAt commits the current caret and continues at the given one, whose
// position is in pre-transaction coordinates. Manual carets must be fed in
// ascending order.
func (m *Modifier) NextAt(anchor, end Position, baseline float64) {
	m.mustBeOpen()
	m.appendCurrent()
	m.switchTo(m.fixup(anchor), m.fixup(end), baseline)
}

// End commits the current caret and any live carets not visited yet,
// replaces the live set and notifies listeners. It reports whether the
// document changed. Calling End on an ended transaction only returns the
// result.
func (m *Modifier) End() bool {
	if m.ended {
		return m.modified
	}
	m.appendCurrent()
	for ; m.next < len(m.live); m.next++ {
		r := m.live[m.next]
		m.e.insertCaret(m.newSet, caret.NewRange(m.fixup(r.Anchor), m.fixup(r.End), r.Baseline))
	}
	m.ended = true

	e := m.e
	e.carets = m.newSet
	e.active = nil
	if m.structFrom >= 0 {
		e.markDirtyFrom(m.structFrom, max(m.oldCount, e.store.LineCount()))
	}
	e.rebuildSelectionCache()
	e.makeVisible()
	if m.modified {
		e.notifyModified()
	}
	e.log.Debug("transaction ended: carets=%d modified=%v lines=%d", e.carets.Len(), m.modified, e.store.LineCount())
	return m.modified
}

// Changed reports whether the transaction changed the document so far.
func (m *Modifier) Changed() bool {
	return m.modified
}

// Current returns the current caret as (anchor, end).
func (m *Modifier) Current() (anchor, end Position) {
	if m.endIsMin {
		return m.hi, m.lo
	}
	return m.lo, m.hi
}

// Baseline returns the current caret's baseline.
func (m *Modifier) Baseline() float64 {
	return m.baseline
}

// Engine returns the engine the transaction edits.
func (m *Modifier) Engine() *Engine {
	return m.e
}

func (m *Modifier) mustBeOpen() {
	if m.ended {
		panic(violation("use of an ended edit transaction", nil))
	}
}

// fixup shifts a position of a caret not visited yet by the change made
// so far.
func (m *Modifier) fixup(p Position) Position {
	p.Line += m.lineDelta
	if p.Line == m.lastLine {
		p.Column += m.colDelta
	}
	return p
}

// switchTo makes (anchor, end) the current caret. The line cursor follows
// the caret's lower bound; leaving lastLine resets the column delta.
func (m *Modifier) switchTo(anchor, end Position, baseline float64) {
	m.baseline = baseline
	m.lo, m.hi, m.endIsMin = anchor, end, false
	if end.Less(anchor) {
		m.lo, m.hi, m.endIsMin = end, anchor, true
	}
	if m.lo.Line != m.lastLine {
		m.colDelta = 0
		m.line = m.line.Seek(m.lo.Line - m.lastLine)
		m.lastLine = m.lo.Line
	}
}

func (m *Modifier) appendCurrent() {
	anchor, end := m.Current()
	m.e.insertCaret(m.newSet, caret.NewRange(anchor, end, m.baseline))
}

// lineAt returns line i without moving the transaction's cursor.
func (m *Modifier) lineAt(i int) *lines.Line {
	return m.line.Seek(i - m.lastLine).Line()
}

func (m *Modifier) xAt(p Position) float64 {
	return m.e.resolver.ColumnToX(m.lineAt(p.Line).Content, p.Column)
}

// mustBeOnCursor guards mutating operations: the current caret's lower
// bound has to sit on the cursor line, which a move to another line in the
// same step breaks.
func (m *Modifier) mustBeOnCursor() {
	m.mustBeOpen()
	if m.lo.Line != m.lastLine {
		panic(violation("edit after moving the caret to another line", nil))
	}
}

func (m *Modifier) structural(line int) {
	if m.structFrom < 0 || line < m.structFrom {
		m.structFrom = line
	}
}

// deleteSelection removes the text between lo and hi and collapses the
// caret to lo.
func (m *Modifier) deleteSelection() {
	l := m.line.Line()
	if m.lo.Line == m.hi.Line {
		l.Content = slices.Delete(l.Content, m.lo.Column, m.hi.Column)
		m.colDelta += m.lo.Column - m.hi.Column
		m.e.markDirty(m.lo.Line)
	} else {
		m.lineDelta -= m.hi.Line - m.lo.Line
		m.colDelta = m.lo.Column - m.hi.Column
		for i := m.lo.Line + 1; i < m.hi.Line; i++ {
			m.eraseNext()
		}
		last := m.line.Next().Line()
		l.Content = append(l.Content[:m.lo.Column], last.Content[m.hi.Column:]...)
		l.Ending = last.Ending
		m.eraseNext()
		m.structural(m.lo.Line)
	}
	m.hi = m.lo
	m.baseline = m.e.resolver.ColumnToX(l.Content, m.lo.Column)
	m.modified = true
}

// eraseNext removes the line after the cursor, keeping the cursor on its
// line.
func (m *Modifier) eraseNext() {
	next := m.line.Next()
	wasLast := next.IsLast()
	c := m.e.store.Erase(next)
	if wasLast {
		m.line = c
	} else {
		m.line = c.Prev()
	}
}

// InsertChar inserts r at the current caret, replacing its selection. A
// newline (or carriage return) splits the line: the first half gets the
// engine's line ending and the second keeps the old one. In overwrite mode
// a caret without selection that is not at the end of its line replaces
// the character after it.
func (m *Modifier) InsertChar(r rune) {
	m.mustBeOnCursor()
	hadSelection := m.lo != m.hi
	if hadSelection {
		m.deleteSelection()
	}
	l := m.line.Line()
	col := m.lo.Column

	switch {
	case r == '\n' || r == '\r':
		tail := lines.Line{Content: slices.Clone(l.Content[col:]), Ending: l.Ending}
		l.Content = slices.Clip(l.Content[:col])
		l.Ending = m.e.lineEnding
		m.line = m.e.store.InsertAfter(m.line, tail)
		m.lineDelta++
		m.lastLine++
		m.colDelta -= col
		m.structural(m.lo.Line)
		m.lo = caret.Pos(m.lo.Line+1, 0)
		l = m.line.Line()
	case m.e.overwrite && !hadSelection && col < len(l.Content):
		l.Content[col] = r
		m.lo.Column++
		m.e.markDirty(m.lo.Line)
	default:
		l.Content = slices.Insert(l.Content, col, r)
		m.colDelta++
		m.lo.Column++
		m.e.markDirty(m.lo.Line)
	}
	m.hi = m.lo
	m.baseline = m.e.resolver.ColumnToX(l.Content, m.lo.Column)
	m.modified = true
}

// InsertText inserts s at the current caret, replacing its selection. The
// terminators inside s are kept as they are. With selectAfter the inserted
// text ends up selected, caret at its end.
func (m *Modifier) InsertText(s string, selectAfter bool) {
	m.mustBeOnCursor()
	if m.lo != m.hi {
		m.deleteSelection()
	}
	if s == "" {
		return
	}
	l := m.line.Line()
	col := m.lo.Column
	tail := slices.Clone(l.Content[col:])
	oldEnding := l.Ending
	l.Content = slices.Clip(l.Content[:col])
	m.e.markDirty(m.lo.Line)

	first := true
	lines.Split([]rune(s), func(content []rune, ending lines.LineEnding) {
		if first {
			l.Content = append(l.Content, content...)
			l.Ending = ending
			first = false
			return
		}
		m.line = m.e.store.InsertAfter(m.line, lines.Line{Content: content, Ending: ending})
		m.lineDelta++
		m.lastLine++
		m.structural(m.lo.Line)
		l = m.line.Line()
	})
	m.colDelta += len(l.Content) - col
	m.hi = caret.Pos(m.lastLine, len(l.Content))
	m.endIsMin = false
	l.Content = append(l.Content, tail...)
	l.Ending = oldEnding
	if !selectAfter {
		m.lo = m.hi
	}
	m.baseline = m.e.resolver.ColumnToX(l.Content, m.hi.Column)
	m.modified = true
}

// DeleteBefore removes the selection or, without one, the character
// before the caret. At column 0 the line is joined onto the previous one.
// It does nothing at the document start.
func (m *Modifier) DeleteBefore() {
	m.mustBeOnCursor()
	if m.lo == m.hi {
		if m.lo == (Position{}) {
			return
		}
		if m.lo.Column == 0 {
			m.line = m.line.Prev()
			m.lastLine--
			m.lo = caret.Pos(m.lo.Line-1, m.line.Line().Len())
		} else {
			m.lo.Column--
		}
	}
	m.deleteSelection()
}

// DeleteAfter removes the selection or, without one, the character after
// the caret. At the end of a line the next line is joined onto it. It does
// nothing at the document end.
func (m *Modifier) DeleteAfter() {
	m.mustBeOnCursor()
	if m.lo == m.hi {
		l := m.line.Line()
		switch {
		case m.hi.Column < l.Len():
			m.hi.Column++
		case !m.line.IsLast():
			m.hi = caret.Pos(m.hi.Line+1, 0)
		default:
			return
		}
	}
	m.deleteSelection()
}

// MoveTo collapses the current caret to p.
func (m *Modifier) MoveTo(p Position, baseline float64) {
	m.mustBeOpen()
	m.lo, m.hi, m.endIsMin = p, p, false
	m.baseline = baseline
}

// MoveToExtending moves the current caret's end to p, keeping its anchor.
func (m *Modifier) MoveToExtending(p Position, baseline float64) {
	m.mustBeOpen()
	if m.endIsMin {
		m.lo = p
	} else {
		m.hi = p
	}
	if m.hi.Less(m.lo) {
		m.lo, m.hi = m.hi, m.lo
		m.endIsMin = !m.endIsMin
	}
	m.baseline = baseline
}
