package script

import "errors"

// ErrTimeout is returned when a script runs longer than its time limit.
var ErrTimeout = errors.New("script timed out")

// Error describes a script that failed to load or raised an error.
type Error struct {
	Name string // Chunk name, the file path for RunFile
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "script " + e.Name + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}
