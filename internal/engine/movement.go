package engine

import (
	"math"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/dshills/multicaret/internal/engine/caret"
)

// Direction is a caret movement.
type Direction int

// Movements.
const (
	Left Direction = iota
	Right
	Up
	Down
	Home
	End
	WordLeft
	WordRight
	DocStart
	DocEnd
)

var directionNames = map[Direction]string{
	Left:      "left",
	Right:     "right",
	Up:        "up",
	Down:      "down",
	Home:      "home",
	End:       "end",
	WordLeft:  "word_left",
	WordRight: "word_right",
	DocStart:  "doc_start",
	DocEnd:    "doc_end",
}

// String returns the direction name.
func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return "unknown"
}

// ParseDirection returns the direction named s.
func ParseDirection(s string) (Direction, bool) {
	for d, name := range directionNames {
		if name == s {
			return d, true
		}
	}
	return 0, false
}

// target is a movement result: a position and the baseline to keep.
type target struct {
	pos      Position
	baseline float64
}

func (m *Modifier) at(p Position) target {
	return target{pos: p, baseline: m.xAt(p)}
}

func (m *Modifier) leftOf(p Position) target {
	switch {
	case p.Column > 0:
		p.Column--
	case p.Line > 0:
		p.Line--
		p.Column = m.lineAt(p.Line).Len()
	}
	return m.at(p)
}

func (m *Modifier) rightOf(p Position) target {
	l := m.lineAt(p.Line)
	switch {
	case p.Column < l.Len():
		p.Column++
	case !l.IsLast():
		p = caret.Pos(p.Line+1, 0)
	}
	return m.at(p)
}

// above and below keep the baseline, landing on the column nearest to it.
// On the first or last line the position is left alone.
func (m *Modifier) above(p Position, baseline float64) target {
	if p.Line > 0 {
		p.Line--
		p.Column = m.e.resolver.XToColumn(m.lineAt(p.Line).Content, baseline)
	}
	return target{pos: p, baseline: baseline}
}

func (m *Modifier) below(p Position, baseline float64) target {
	if p.Line+1 < m.e.store.LineCount() {
		p.Line++
		p.Column = m.e.resolver.XToColumn(m.lineAt(p.Line).Content, baseline)
	}
	return target{pos: p, baseline: baseline}
}

// home goes to the first non-blank character, or to column 0 when
// already there.
func (m *Modifier) home(p Position) target {
	content := m.lineAt(p.Line).Content
	first := 0
	for first < len(content) && (content[first] == ' ' || content[first] == '\t') {
		first++
	}
	if first == len(content) || p.Column == first {
		return target{pos: caret.Pos(p.Line, 0), baseline: 0}
	}
	return m.at(caret.Pos(p.Line, first))
}

// end goes past the last character; the infinite baseline keeps vertical
// moves at line ends.
func (m *Modifier) end(p Position) target {
	return target{pos: caret.Pos(p.Line, m.lineAt(p.Line).Len()), baseline: math.Inf(1)}
}

// wordSpan is a word-segmentation unit of a line, in columns.
type wordSpan struct {
	start, end int
	blank      bool
}

func wordSpans(content []rune) []wordSpan {
	var spans []wordSpan
	rest := string(content)
	state := -1
	col := 0
	for len(rest) > 0 {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		n := utf8.RuneCountInString(word)
		blank := true
		for _, r := range word {
			if !unicode.IsSpace(r) {
				blank = false
				break
			}
		}
		spans = append(spans, wordSpan{start: col, end: col + n, blank: blank})
		col += n
	}
	return spans
}

// wordRight goes to the end of the next word. At the end of a line it
// behaves like Right.
func (m *Modifier) wordRight(p Position) target {
	content := m.lineAt(p.Line).Content
	if p.Column >= len(content) {
		return m.rightOf(p)
	}
	for _, s := range wordSpans(content) {
		if s.end > p.Column && !s.blank {
			return m.at(caret.Pos(p.Line, s.end))
		}
	}
	return m.at(caret.Pos(p.Line, len(content)))
}

// wordLeft goes to the start of the previous word. At column 0 it behaves
// like Left.
func (m *Modifier) wordLeft(p Position) target {
	if p.Column == 0 {
		return m.leftOf(p)
	}
	spans := wordSpans(m.lineAt(p.Line).Content)
	for i := len(spans) - 1; i >= 0; i-- {
		if s := spans[i]; s.start < p.Column && !s.blank {
			return m.at(caret.Pos(p.Line, s.start))
		}
	}
	return target{pos: caret.Pos(p.Line, 0), baseline: 0}
}

// Move moves the current caret. Without extend a selection collapses:
// Left and Up start from its lower bound and Right and Down from its
// upper bound.
func (m *Modifier) Move(d Direction, extend bool) {
	m.mustBeOpen()
	anchor, end := m.Current()
	from := end
	if !extend && anchor != end {
		switch d {
		case Left:
			m.MoveTo(m.lo, m.xAt(m.lo))
			return
		case Right:
			m.MoveTo(m.hi, m.xAt(m.hi))
			return
		case Up:
			if from != m.lo {
				from = m.lo
				m.baseline = m.xAt(from)
			}
		case Down:
			if from != m.hi {
				from = m.hi
				m.baseline = m.xAt(from)
			}
		}
	}

	var t target
	switch d {
	case Left:
		t = m.leftOf(from)
	case Right:
		t = m.rightOf(from)
	case Up:
		t = m.above(from, m.baseline)
	case Down:
		t = m.below(from, m.baseline)
	case Home:
		t = m.home(from)
	case End:
		t = m.end(from)
	case WordLeft:
		t = m.wordLeft(from)
	case WordRight:
		t = m.wordRight(from)
	case DocStart:
		t = target{}
	case DocEnd:
		last := m.e.store.LineCount() - 1
		t = m.at(caret.Pos(last, m.lineAt(last).Len()))
	default:
		return
	}
	if extend {
		m.MoveToExtending(t.pos, t.baseline)
	} else {
		m.MoveTo(t.pos, t.baseline)
	}
}

// Collapse drops the current caret's selection, keeping its end.
func (m *Modifier) Collapse() {
	_, end := m.Current()
	m.MoveTo(end, m.baseline)
}
