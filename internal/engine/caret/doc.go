// Package caret provides caret positions, caret ranges and the caret set
// used for multi-caret editing.
//
// Position is a (line, column) coordinate ordered lexicographically. Column
// is a codepoint offset into the line.
//
// Range is the full state of one caret: the anchor where a selection
// started, the end where the caret currently is, the baseline (the
// horizontal pixel target kept across vertical moves) and a cache of the
// rectangles that highlight the selection. When Anchor == End the range is
// a plain caret.
//
// Merge Algebra:
//
// Set keeps ranges ordered by their lower endpoint. Insert is the only way
// to add a range and it merges the new range with every range it collides
// with:
//
//   - a plain caret inside a selection (bounds included) is absorbed by the
//     selection, which keeps its extent and direction
//   - selections whose spans only touch stay separate
//   - overlapping selections become their union, directed like the range
//     being inserted
//
// After every Insert the ranges are ordered and pairwise unmergeable.
//
// Thread Safety:
//
// Position and Range are values. Set is not safe for concurrent use.
package caret
