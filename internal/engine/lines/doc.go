// Package lines provides the line store that holds document text as a
// sequence of discrete lines.
//
// Each Line carries its content as codepoints and the terminator that
// ended it in the source text (CR, LF, CRLF). Exactly one line, the last
// one, has no terminator. Keeping the terminator per line lets a document
// be written back byte for byte.
//
// Storage Model:
//
// Lines are grouped into chunks of roughly DefaultChunkCapacity lines for
// allocation locality. Chunk boundaries are never observable: indexing,
// traversal and counting behave as if the lines formed one flat list.
//
//   - LineCount sums the chunk sizes, so it is O(chunk count)
//   - At walks the chunks, then indexes into one chunk
//   - InsertBefore/InsertAfter/Erase only touch one chunk
//
// Cursors:
//
// A Cursor addresses one line. Cursors are generation-checked handles:
// every structural mutation (insert, erase) invalidates all cursors except
// the one returned by the mutating call. Using a stale cursor panics with
// ErrStaleCursor, so a caller cannot silently read the wrong line after an
// edit shifted the lines around.
//
// Basic usage:
//
//	s := lines.FromText([]rune("hello\nworld"))
//	c, err := s.At(1)
//	if err != nil {
//	    return err
//	}
//	c.Line().Content = append(c.Line().Content, '!')
//	c = s.InsertAfter(c, lines.Line{Content: []rune("again"), Ending: lines.None})
//
// Thread Safety:
//
// Store is not safe for concurrent use. It is owned by one editing session
// and mutated only from inside an edit transaction.
package lines
