// Package engine is the multi-caret editing engine.
//
// An Engine owns a line store (package lines), the live caret set (package
// caret) and a layout resolver (package layout). Every edit runs inside a
// transaction, the Modifier, which visits the carets in ascending position
// order and applies the same operation at each one.
//
// # Delta propagation
//
// Carets are visited in position order and every edit only touches text at
// or after the current caret, so positions still to be visited are shifted
// by the cumulative change made so far: lineDelta is added to their line,
// and columnDelta is added to their column when they sit on the last line
// an edit touched. The Modifier keeps a line cursor that only moves
// forward, so a transaction over N carets in a document of L lines costs
// O(N + L) line steps rather than O(N*L).
//
// # Basic usage
//
//	e := engine.New(engine.WithContent("foo\nbar"))
//	e.ApplyEdit(engine.AddCaret(caret.Pos(1, 0)))
//	e.ApplyEdit(engine.InsertChar('>'))
//	e.Text() // ">foo\n>bar"
//
// Custom operations drive a Modifier directly:
//
//	for tx := e.Begin(); !tx.Done(); tx.Next() {
//		tx.InsertText("// ", false)
//	}
//
// # Mouse interaction
//
// MouseDown, MouseMove, MouseUp and CaptureLost drive a small state machine
// (Idle, Selecting, PreDrag). A selection being dragged out is kept apart
// from the live set and merged in when the button is released or when a
// transaction starts.
//
// # Thread safety
//
// An Engine is not safe for concurrent use. Hosts serialize events on one
// goroutine.
package engine
