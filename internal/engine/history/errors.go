package history

import (
	"errors"
	"fmt"
)

// Errors returned by history operations.
var (
	// ErrInvalidDelta indicates malformed delta construction arguments.
	ErrInvalidDelta = errors.New("invalid delta")

	// ErrOutOfRange indicates a delta does not fit the buffer it was applied to.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrNothingToUndo indicates the past stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the future stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrCheckpointEvicted indicates a checkpoint older than the oldest
	// edit still in the history.
	ErrCheckpointEvicted = errors.New("checkpoint evicted")
)

// DeltaError describes a failed delta construction or application.
type DeltaError struct {
	Op     string // "new", "forward" or "inverse"
	Offset int    // Offset of the delta
	Length int    // Length involved in the failing check
	Size   int    // Buffer length in characters, or the mismatching text length
	Reason string // Short description of the failed check
	Err    error  // ErrInvalidDelta or ErrOutOfRange
}

// Error implements the error interface.
func (e *DeltaError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s delta at offset %d: %s: %v", e.Op, e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s delta at offset %d (length %d, size %d): %v", e.Op, e.Offset, e.Length, e.Size, e.Err)
}

// Unwrap returns the underlying sentinel error.
func (e *DeltaError) Unwrap() error {
	return e.Err
}

func invalidDelta(offset int, reason string) error {
	return &DeltaError{Op: "new", Offset: offset, Reason: reason, Err: ErrInvalidDelta}
}

func outOfRange(op string, offset, length, size int) error {
	return &DeltaError{Op: op, Offset: offset, Length: length, Size: size, Err: ErrOutOfRange}
}
