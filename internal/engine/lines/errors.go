package lines

import "errors"

// Errors returned or raised by line store operations.
var (
	// ErrOutOfRange indicates a line index at or past the line count.
	ErrOutOfRange = errors.New("line index out of range")

	// ErrInvariantViolation indicates a broken store invariant. It is raised
	// with panic since it always reflects a caller bug.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrStaleCursor indicates a cursor used after a structural mutation.
	ErrStaleCursor = errors.New("stale line cursor")
)

// violation builds the panic value for a broken invariant.
func violation(msg string) error {
	return &InvariantError{Message: msg}
}

// InvariantError describes a broken line store invariant.
type InvariantError struct {
	Message string
	Err     error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return "lines: " + e.Message + ": " + e.Err.Error()
	}
	return "lines: " + e.Message
}

// Is reports ErrInvariantViolation for every InvariantError.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}
