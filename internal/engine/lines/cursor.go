package lines

import "fmt"

// Cursor addresses one line of a Store.
// A Cursor is only valid until the next structural mutation of its store.
type Cursor struct {
	s   *Store
	ci  int // chunk index
	li  int // line index within the chunk
	gen uint64
}

// Valid returns true if the cursor belongs to a store and is not stale.
func (c Cursor) Valid() bool {
	return c.s != nil && c.gen == c.s.gen
}

func (c Cursor) check() {
	if c.s == nil {
		panic(&InvariantError{Message: "zero cursor", Err: ErrStaleCursor})
	}
	if c.gen != c.s.gen {
		panic(&InvariantError{
			Message: fmt.Sprintf("cursor generation %d, store generation %d", c.gen, c.s.gen),
			Err:     ErrStaleCursor,
		})
	}
}

// Line returns the addressed line. The returned pointer stays valid across
// structural mutations for as long as the line itself is not erased.
func (c Cursor) Line() *Line {
	c.check()
	return c.s.chunks[c.ci].lines[c.li]
}

// Index returns the 0-based line index. It is O(chunk count).
func (c Cursor) Index() int {
	c.check()
	n := c.li
	for _, ch := range c.s.chunks[:c.ci] {
		n += len(ch.lines)
	}
	return n
}

// IsBegin returns true if the cursor is at the first line.
func (c Cursor) IsBegin() bool {
	c.check()
	return c.ci == 0 && c.li == 0
}

// IsLast returns true if the cursor is at the last line.
func (c Cursor) IsLast() bool {
	c.check()
	return c.ci == len(c.s.chunks)-1 && c.li == len(c.s.chunks[c.ci].lines)-1
}

// Next returns a cursor at the following line.
// Calling Next on the last line panics.
func (c Cursor) Next() Cursor {
	if c.IsLast() {
		panic(violation("advance past the last line"))
	}
	if c.li+1 < len(c.s.chunks[c.ci].lines) {
		c.li++
	} else {
		c.ci++
		c.li = 0
	}
	return c
}

// Prev returns a cursor at the preceding line.
// Calling Prev on the first line panics.
func (c Cursor) Prev() Cursor {
	if c.IsBegin() {
		panic(violation("retreat before the first line"))
	}
	if c.li > 0 {
		c.li--
	} else {
		c.ci--
		c.li = len(c.s.chunks[c.ci].lines) - 1
	}
	return c
}

// Seek returns a cursor moved by delta lines, walking chunk by chunk.
// It panics if the target is outside the store.
func (c Cursor) Seek(delta int) Cursor {
	c.check()
	for delta > 0 {
		room := len(c.s.chunks[c.ci].lines) - 1 - c.li
		if delta <= room {
			c.li += delta
			return c
		}
		if c.ci+1 >= len(c.s.chunks) {
			panic(violation("seek past the last line"))
		}
		delta -= room + 1
		c.ci++
		c.li = 0
	}
	for delta < 0 {
		if -delta <= c.li {
			c.li += delta
			return c
		}
		if c.ci == 0 {
			panic(violation("seek before the first line"))
		}
		delta += c.li + 1
		c.ci--
		c.li = len(c.s.chunks[c.ci].lines) - 1
	}
	return c
}
