package engine

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"

	"github.com/dshills/multicaret/internal/engine/caret"
	"github.com/dshills/multicaret/internal/engine/layout"
	"github.com/dshills/multicaret/internal/engine/lines"
	"github.com/dshills/multicaret/internal/logging"
)

// Re-export commonly used types for convenience.
type (
	// Position is a (line, column) location in the document.
	Position = caret.Position

	// LineEnding is a line terminator kind.
	LineEnding = lines.LineEnding
)

// Re-export constants.
const (
	LineEndingNone = lines.None
	LineEndingLF   = lines.LF
	LineEndingCRLF = lines.CRLF
	LineEndingCR   = lines.CR
)

// Engine is a multi-caret editor over one document.
type Engine struct {
	id       uuid.UUID
	store    *lines.Store
	carets   *caret.Set
	resolver layout.Resolver
	log      *logging.Logger

	lineEnding    lines.LineEnding
	lineHeight    float64
	overwrite     bool
	chunkCapacity int
	initContent   string

	// active is the open transaction, if any
	active *Modifier

	// mouse interaction
	state   InteractionState
	pending caret.Range
	press   Position

	// lines changed since the last ClearDirty
	dirty *bitset.BitSet

	modifiedListeners []func()
	scrollListeners   []func(x, y float64)
}

// New creates an engine over a fresh document, empty unless WithContent
// is given.
func New(opts ...Option) *Engine {
	e := newEngine(opts)
	var storeOpts []lines.Option
	if e.chunkCapacity > 0 {
		storeOpts = append(storeOpts, lines.WithChunkCapacity(e.chunkCapacity))
	}
	e.store = lines.FromString(e.initContent, storeOpts...)
	e.initContent = ""
	e.log.Debug("created engine %s with %d lines", e.id, e.store.LineCount())
	return e
}

// Open creates an engine over an existing store. The engine takes
// ownership of store.
func Open(store *lines.Store, opts ...Option) *Engine {
	e := newEngine(opts)
	e.store = store
	e.log.Debug("opened engine %s with %d lines", e.id, store.LineCount())
	return e
}

func newEngine(opts []Option) *Engine {
	e := &Engine{
		id:         uuid.New(),
		carets:     caret.NewSet(),
		resolver:   layout.NewResolver(layout.Monospace{CellWidth: DefaultCellWidth}, layout.Font{}, DefaultTabWidth),
		log:        logging.Nop(),
		lineEnding: lines.LF,
		lineHeight: DefaultLineHeight,
		dirty:      bitset.New(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() uuid.UUID {
	return e.id
}

// Store returns the line store. Callers must not mutate it while a
// transaction is open.
func (e *Engine) Store() *lines.Store {
	return e.store
}

// Text returns the whole document, terminators included.
func (e *Engine) Text() string {
	return e.store.Text()
}

// LineCount returns the number of lines.
func (e *Engine) LineCount() int {
	return e.store.LineCount()
}

// Line returns a copy of line i.
func (e *Engine) Line(i int) (lines.Line, error) {
	c, err := e.store.At(i)
	if err != nil {
		return lines.Line{}, err
	}
	l := c.Line()
	return lines.Line{Content: append([]rune(nil), l.Content...), Ending: l.Ending}, nil
}

// Carets returns the live caret set. Callers must not mutate it.
func (e *Engine) Carets() *caret.Set {
	return e.carets
}

// DisplayCarets returns the carets to draw: the live set plus the
// selection being dragged out, if any.
func (e *Engine) DisplayCarets() *caret.Set {
	if e.state != StateSelecting {
		return e.carets
	}
	s := e.carets.Clone()
	i, _ := s.Insert(e.pending)
	e.cacheSelection(s, i)
	return s
}

// SetCarets replaces the live carets. Ranges are merged as they are added.
// An empty list leaves a caret at (0,0).
func (e *Engine) SetCarets(ranges []caret.Range) {
	e.mustBeIdleTx()
	s := caret.Empty()
	for _, r := range ranges {
		e.insertCaret(s, e.clampRange(r))
	}
	if s.Len() == 0 {
		s.Insert(caret.NewCaret(Position{}, 0))
	}
	e.carets = s
	e.rebuildSelectionCache()
}

// Resolver returns the layout resolver.
func (e *Engine) Resolver() layout.Resolver {
	return e.resolver
}

// LineHeight returns the height of one line.
func (e *Engine) LineHeight() float64 {
	return e.lineHeight
}

// LineEnding returns the terminator used when splitting lines.
func (e *Engine) LineEnding() lines.LineEnding {
	return e.lineEnding
}

// Overwrite returns true in overwrite mode.
func (e *Engine) Overwrite() bool {
	return e.overwrite
}

// OnModified registers fn to run once after every transaction that
// changed the document.
func (e *Engine) OnModified(fn func()) {
	e.modifiedListeners = append(e.modifiedListeners, fn)
}

// OnScroll registers fn to receive requests to bring the point (x, y) into
// view. y is the top of the primary caret's line.
func (e *Engine) OnScroll(fn func(x, y float64)) {
	e.scrollListeners = append(e.scrollListeners, fn)
}

// Dirty returns the lines changed since the last ClearDirty. Callers must
// not mutate it.
func (e *Engine) Dirty() *bitset.BitSet {
	return e.dirty
}

// ClearDirty forgets all changed lines.
func (e *Engine) ClearDirty() {
	e.dirty.ClearAll()
}

// HitTest returns the position nearest to the document point (x, y).
func (e *Engine) HitTest(x, y float64) Position {
	line := int(math.Floor(max(y, 0) / e.lineHeight))
	line = min(line, e.store.LineCount()-1)
	c := e.store.MustAt(line)
	return caret.Pos(line, e.resolver.XToColumn(c.Line().Content, x))
}

// EndPosition returns the position after the last character.
func (e *Engine) EndPosition() Position {
	last := e.store.Last()
	return caret.Pos(e.store.LineCount()-1, last.Line().Len())
}

// xAt returns the horizontal offset of p.
func (e *Engine) xAt(p Position) float64 {
	return e.resolver.ColumnToX(e.store.MustAt(p.Line).Line().Content, p.Column)
}

// clampPosition moves p inside the document.
func (e *Engine) clampPosition(p Position) Position {
	if p.Line < 0 {
		return Position{}
	}
	if p.Line >= e.store.LineCount() {
		return e.EndPosition()
	}
	n := e.store.MustAt(p.Line).Line().Len()
	return caret.Pos(p.Line, min(max(p.Column, 0), n))
}

func (e *Engine) clampRange(r caret.Range) caret.Range {
	return caret.NewRange(e.clampPosition(r.Anchor), e.clampPosition(r.End), r.Baseline)
}

// insertCaret adds r to s; a merged result gets its baseline recomputed
// from its end.
func (e *Engine) insertCaret(s *caret.Set, r caret.Range) int {
	i, merged := s.Insert(r)
	if merged {
		m := s.At(i)
		m.Baseline = e.xAt(m.End)
		s.Update(i, m)
	}
	return i
}

func (e *Engine) mustBeIdleTx() {
	if e.active != nil {
		panic(violation("engine used during a transaction", ErrTransactionActive))
	}
}

func (e *Engine) notifyModified() {
	for _, fn := range e.modifiedListeners {
		fn()
	}
}

// makeVisible asks the view to scroll the primary caret into view.
func (e *Engine) makeVisible() {
	if len(e.scrollListeners) == 0 {
		return
	}
	p := e.carets.Primary().End
	x, y := e.xAt(p), float64(p.Line)*e.lineHeight
	for _, fn := range e.scrollListeners {
		fn(x, y)
	}
}

// markDirty records line i as changed.
func (e *Engine) markDirty(i int) {
	e.dirty.Set(uint(i))
}

// markDirtyFrom records lines [from, to) as changed.
func (e *Engine) markDirtyFrom(from, to int) {
	for i := from; i < to; i++ {
		e.dirty.Set(uint(i))
	}
}
