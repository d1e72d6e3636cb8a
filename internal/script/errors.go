package script

import "errors"

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a script runs past its deadline.
	ErrExecutionTimeout = errors.New("lua execution timeout")
)

// Error reports a failure raised while running a script.
type Error struct {
	Script string
	Err    error
}

func (e *Error) Error() string {
	return e.Script + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
