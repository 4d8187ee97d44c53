package script

import "errors"

// Errors for script execution.
var (
	// ErrStateClosed is returned when running on a closed runner.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrEditLimit is returned when a script issues more edits than allowed.
	ErrEditLimit = errors.New("script edit limit exceeded")
)
