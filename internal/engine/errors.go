package engine

import (
	"errors"

	"github.com/dshills/multicaret/internal/engine/lines"
)

// Errors returned or raised by engine operations.
var (
	// ErrInvariantViolation indicates a caller bug, such as a second
	// transaction opened while one is active. It is raised with panic and
	// matches the line store's violations under errors.Is.
	ErrInvariantViolation = lines.ErrInvariantViolation

	// ErrTransactionActive indicates an edit was attempted while a
	// transaction is open.
	ErrTransactionActive = errors.New("edit transaction already active")

	// ErrOutOfRange indicates a line index outside the document.
	ErrOutOfRange = lines.ErrOutOfRange
)

// violation builds the panic value for a broken engine invariant.
func violation(msg string, err error) error {
	return &lines.InvariantError{Message: msg, Err: err}
}
