package lines

import (
	"fmt"
	"iter"
	"strings"
)

// DefaultChunkCapacity is the advised number of lines per chunk.
const DefaultChunkCapacity = 1000

// chunk is a contiguous run of lines.
type chunk struct {
	lines []*Line
}

// Store is a chunked sequence of lines.
// A Store always contains at least one line, and its last line has no
// terminator.
type Store struct {
	chunks   []*chunk
	capacity int
	gen      uint64
}

// Option configures a Store during creation.
type Option func(*Store)

// WithChunkCapacity sets the number of lines per chunk.
func WithChunkCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func newEmptyStore(opts []Option) *Store {
	s := &Store{capacity: DefaultChunkCapacity}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewStore creates a store holding a single empty line.
func NewStore(opts ...Option) *Store {
	s := newEmptyStore(opts)
	s.appendLine(Line{Ending: None})
	return s
}

// FromText creates a store from a codepoint sequence, splitting it with Split.
func FromText(text []rune, opts ...Option) *Store {
	s := newEmptyStore(opts)
	Split(text, func(content []rune, ending LineEnding) {
		s.appendLine(Line{Content: content, Ending: ending})
	})
	return s
}

// FromString is a convenience wrapper around FromText.
func FromString(text string, opts ...Option) *Store {
	return FromText([]rune(text), opts...)
}

// FromLines creates a store from already split lines.
// It returns an error wrapping ErrInvariantViolation unless exactly the
// last line has the None ending.
func FromLines(ls []Line, opts ...Option) (*Store, error) {
	if len(ls) == 0 {
		return nil, fmt.Errorf("%w: a store needs at least one line", ErrInvariantViolation)
	}
	for i, l := range ls {
		last := i == len(ls)-1
		if last != (l.Ending == None) {
			return nil, fmt.Errorf("%w: line %d has ending %s", ErrInvariantViolation, i, l.Ending.Name())
		}
	}
	s := newEmptyStore(opts)
	for _, l := range ls {
		content := make([]rune, len(l.Content))
		copy(content, l.Content)
		s.appendLine(Line{Content: content, Ending: l.Ending})
	}
	return s, nil
}

// appendLine adds a line at the end, opening a new chunk when the tail
// chunk is full.
func (s *Store) appendLine(l Line) {
	if len(s.chunks) == 0 || len(s.chunks[len(s.chunks)-1].lines) >= s.capacity {
		s.chunks = append(s.chunks, &chunk{lines: make([]*Line, 0, s.capacity)})
	}
	tail := s.chunks[len(s.chunks)-1]
	line := l
	tail.lines = append(tail.lines, &line)
	s.gen++
}

// ChunkCapacity returns the configured lines per chunk.
func (s *Store) ChunkCapacity() int {
	return s.capacity
}

// ChunkCount returns the number of chunks currently allocated.
func (s *Store) ChunkCount() int {
	return len(s.chunks)
}

// LineCount returns the number of lines.
// It is O(chunk count); callers needing the count often should cache it.
func (s *Store) LineCount() int {
	n := 0
	for _, ch := range s.chunks {
		n += len(ch.lines)
	}
	return n
}

// At returns a cursor at the given 0-based line index.
func (s *Store) At(index int) (Cursor, error) {
	if index < 0 {
		return Cursor{}, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	rem := index
	for ci, ch := range s.chunks {
		if rem < len(ch.lines) {
			return s.cursor(ci, rem), nil
		}
		rem -= len(ch.lines)
	}
	return Cursor{}, fmt.Errorf("%w: %d of %d", ErrOutOfRange, index, index-rem)
}

// MustAt is like At but panics when index is out of range.
// It is meant for indices the caller has already validated.
func (s *Store) MustAt(index int) Cursor {
	c, err := s.At(index)
	if err != nil {
		panic(&InvariantError{Message: "seek", Err: err})
	}
	return c
}

// Begin returns a cursor at the first line.
func (s *Store) Begin() Cursor {
	return s.cursor(0, 0)
}

// Last returns a cursor at the last line, the one without a terminator.
func (s *Store) Last() Cursor {
	ci := len(s.chunks) - 1
	return s.cursor(ci, len(s.chunks[ci].lines)-1)
}

// InsertBefore inserts a line before the cursor's line and returns a cursor
// at the new line. All other cursors become stale.
func (s *Store) InsertBefore(c Cursor, l Line) Cursor {
	c.check()
	return s.insertAt(c.ci, c.li, l)
}

// InsertAfter inserts a line after the cursor's line and returns a cursor
// at the new line. All other cursors become stale.
func (s *Store) InsertAfter(c Cursor, l Line) Cursor {
	c.check()
	return s.insertAt(c.ci, c.li+1, l)
}

func (s *Store) insertAt(ci, li int, l Line) Cursor {
	ch := s.chunks[ci]
	line := l
	ch.lines = append(ch.lines, nil)
	copy(ch.lines[li+1:], ch.lines[li:])
	ch.lines[li] = &line
	s.gen++

	if len(ch.lines) > 2*s.capacity {
		half := len(ch.lines) / 2
		right := &chunk{lines: make([]*Line, len(ch.lines)-half, s.capacity*2)}
		copy(right.lines, ch.lines[half:])
		clear(ch.lines[half:])
		ch.lines = ch.lines[:half]
		s.chunks = append(s.chunks, nil)
		copy(s.chunks[ci+2:], s.chunks[ci+1:])
		s.chunks[ci+1] = right
		if li >= half {
			ci, li = ci+1, li-half
		}
	}
	return s.cursor(ci, li)
}

// Erase removes the cursor's line and returns a cursor at the line that
// followed it, or at the new last line when the erased line was last.
// An emptied chunk is released. Erasing the only line of the store panics.
func (s *Store) Erase(c Cursor) Cursor {
	c.check()
	if len(s.chunks) == 1 && len(s.chunks[0].lines) == 1 {
		panic(violation("erase of the only line"))
	}
	wasLast := c.IsLast()

	ci, li := c.ci, c.li
	ch := s.chunks[ci]
	copy(ch.lines[li:], ch.lines[li+1:])
	ch.lines[len(ch.lines)-1] = nil
	ch.lines = ch.lines[:len(ch.lines)-1]
	if len(ch.lines) == 0 {
		copy(s.chunks[ci:], s.chunks[ci+1:])
		s.chunks[len(s.chunks)-1] = nil
		s.chunks = s.chunks[:len(s.chunks)-1]
		li = 0
	}
	s.gen++

	if wasLast {
		return s.Last()
	}
	if ci < len(s.chunks) && li >= len(s.chunks[ci].lines) {
		ci, li = ci+1, 0
	}
	return s.cursor(ci, li)
}

// Lines iterates over the lines with their indices.
// The store must not be structurally modified during iteration.
func (s *Store) Lines() iter.Seq2[int, *Line] {
	return func(yield func(int, *Line) bool) {
		i := 0
		for _, ch := range s.chunks {
			for _, l := range ch.lines {
				if !yield(i, l) {
					return
				}
				i++
			}
		}
	}
}

// Text returns the whole document, terminators included.
func (s *Store) Text() string {
	var sb strings.Builder
	for _, l := range s.Lines() {
		sb.WriteString(string(l.Content))
		sb.WriteString(l.Ending.String())
	}
	return sb.String()
}

// Substring returns the text between (fromLine, fromCol) and (toLine, toCol),
// terminators of fully covered line breaks included.
func (s *Store) Substring(fromLine, fromCol, toLine, toCol int) (string, error) {
	if toLine < fromLine || (toLine == fromLine && toCol < fromCol) {
		return "", fmt.Errorf("%w: substring end before start", ErrOutOfRange)
	}
	c, err := s.At(fromLine)
	if err != nil {
		return "", err
	}
	l := c.Line()
	if fromCol > l.Len() {
		return "", fmt.Errorf("%w: column %d of line %d", ErrOutOfRange, fromCol, fromLine)
	}
	if fromLine == toLine {
		if toCol > l.Len() {
			return "", fmt.Errorf("%w: column %d of line %d", ErrOutOfRange, toCol, toLine)
		}
		return string(l.Content[fromCol:toCol]), nil
	}

	var sb strings.Builder
	sb.WriteString(string(l.Content[fromCol:]))
	sb.WriteString(l.Ending.String())
	for line := fromLine + 1; ; line++ {
		if c.IsLast() {
			return "", fmt.Errorf("%w: line %d", ErrOutOfRange, line)
		}
		c = c.Next()
		l = c.Line()
		if line == toLine {
			if toCol > l.Len() {
				return "", fmt.Errorf("%w: column %d of line %d", ErrOutOfRange, toCol, toLine)
			}
			sb.WriteString(string(l.Content[:toCol]))
			return sb.String(), nil
		}
		sb.WriteString(string(l.Content))
		sb.WriteString(l.Ending.String())
	}
}

func (s *Store) cursor(ci, li int) Cursor {
	return Cursor{s: s, ci: ci, li: li, gen: s.gen}
}
