package caret

import "fmt"

// Position is a caret coordinate. Both fields are 0-indexed and Column
// counts codepoints.
type Position struct {
	Line   int
	Column int
}

// Pos is shorthand for Position{Line: line, Column: column}.
func Pos(line, column int) Position {
	return Position{Line: line, Column: column}
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Less returns true if p comes before other.
func (p Position) Less(other Position) bool {
	return p.Compare(other) < 0
}

// LessEq returns true if p comes before or equals other.
func (p Position) LessEq(other Position) bool {
	return p.Compare(other) <= 0
}

// MinPos returns the earlier of two positions.
func MinPos(a, b Position) Position {
	if b.Less(a) {
		return b
	}
	return a
}

// MaxPos returns the later of two positions.
func MaxPos(a, b Position) Position {
	if a.Less(b) {
		return b
	}
	return a
}

// ComparePositions is Compare in function form, for ordered containers.
func ComparePositions(a, b Position) int {
	return a.Compare(b)
}
