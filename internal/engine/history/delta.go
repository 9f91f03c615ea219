package history

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// AbsentText is rendered by Delta.String in place of missing added or removed text.
const AbsentText = "<none>"

// Delta represents one atomic, invertible substitution in a text buffer.
// It captures everything needed to undo or redo the edit.
//
// A Delta is a value: it is never modified after construction and every
// transform returns a new string.
type Delta struct {
	offset     int
	addedLen   int
	removedLen int
	added      string
	removed    string
	timestamp  time.Time
}

// NewDelta creates a delta. Offset and lengths count characters (runes).
// Absent text is passed as the empty string and must pair with a zero length.
//
// Returns an error wrapping ErrInvalidDelta if an offset or length is
// negative, both lengths are zero, or a text does not match its length.
func NewDelta(offset, addedLen, removedLen int, added, removed string) (Delta, error) {
	switch {
	case offset < 0:
		return Delta{}, invalidDelta(offset, "negative offset")
	case addedLen < 0 || removedLen < 0:
		return Delta{}, invalidDelta(offset, fmt.Sprintf("negative length (added %d, removed %d)", addedLen, removedLen))
	case addedLen == 0 && removedLen == 0:
		return Delta{}, invalidDelta(offset, "empty change")
	}

	if n := utf8.RuneCountInString(added); n != addedLen {
		return Delta{}, invalidDelta(offset, fmt.Sprintf("added text has %d characters, want %d", n, addedLen))
	}
	if n := utf8.RuneCountInString(removed); n != removedLen {
		return Delta{}, invalidDelta(offset, fmt.Sprintf("removed text has %d characters, want %d", n, removedLen))
	}

	return Delta{
		offset:     offset,
		addedLen:   addedLen,
		removedLen: removedLen,
		added:      added,
		removed:    removed,
		timestamp:  time.Now(),
	}, nil
}

// NewInsertDelta creates a delta for a pure insertion.
func NewInsertDelta(offset int, text string) (Delta, error) {
	return NewDelta(offset, utf8.RuneCountInString(text), 0, text, "")
}

// NewDeleteDelta creates a delta for a pure deletion.
func NewDeleteDelta(offset int, deleted string) (Delta, error) {
	return NewDelta(offset, 0, utf8.RuneCountInString(deleted), "", deleted)
}

// NewReplaceDelta creates a delta replacing oldText with newText at offset.
func NewReplaceDelta(offset int, oldText, newText string) (Delta, error) {
	return NewDelta(offset, utf8.RuneCountInString(newText), utf8.RuneCountInString(oldText), newText, oldText)
}

// Offset returns the character index where the change starts.
func (d Delta) Offset() int { return d.offset }

// AddedLen returns the number of characters inserted.
func (d Delta) AddedLen() int { return d.addedLen }

// RemovedLen returns the number of characters removed.
func (d Delta) RemovedLen() int { return d.removedLen }

// Added returns the inserted text, empty when nothing was inserted.
func (d Delta) Added() string { return d.added }

// Removed returns the deleted text, empty when nothing was deleted.
func (d Delta) Removed() string { return d.removed }

// Timestamp returns when the delta was created.
func (d Delta) Timestamp() time.Time { return d.timestamp }

// IsInsert returns true if this delta is a pure insertion.
func (d Delta) IsInsert() bool {
	return d.addedLen > 0 && d.removedLen == 0
}

// IsDelete returns true if this delta is a pure deletion.
func (d Delta) IsDelete() bool {
	return d.addedLen == 0 && d.removedLen > 0
}

// IsReplace returns true if this delta both removes and inserts text.
func (d Delta) IsReplace() bool {
	return d.addedLen > 0 && d.removedLen > 0
}

// LengthDelta returns the change in buffer length, in characters.
func (d Delta) LengthDelta() int {
	return d.addedLen - d.removedLen
}

// ApplyForward replays the edit against source (the redo direction).
// The removed span is cut first, then the added text is inserted at the
// same offset.
func (d Delta) ApplyForward(source string) (string, error) {
	return splice("forward", source, d.offset, d.removedLen, d.addedLen, d.added)
}

// ApplyInverse reverts the edit against source (the undo direction).
// The added span is cut first, then the removed text is inserted back at
// the same offset.
func (d Delta) ApplyInverse(source string) (string, error) {
	return splice("inverse", source, d.offset, d.addedLen, d.removedLen, d.removed)
}

// String renders the delta as "(offset,added,removed) + added - removed".
func (d Delta) String() string {
	added, removed := AbsentText, AbsentText
	if d.addedLen > 0 {
		added = d.added
	}
	if d.removedLen > 0 {
		removed = d.removed
	}
	return fmt.Sprintf("(%d,%d,%d) + %s - %s", d.offset, d.addedLen, d.removedLen, added, removed)
}

// splice cuts cut characters at offset, then inserts ins (insLen characters)
// at the same offset. Bounds are checked before the corresponding step.
func splice(op, source string, offset, cut, insLen int, ins string) (string, error) {
	runes := []rune(source)

	if cut > 0 {
		if offset > len(runes) || cut > len(runes)-offset {
			return "", outOfRange(op, offset, cut, len(runes))
		}
		runes = append(runes[:offset:offset], runes[offset+cut:]...)
	}

	if insLen > 0 {
		if offset > len(runes) {
			return "", outOfRange(op, offset, insLen, len(runes))
		}
		var sb strings.Builder
		sb.Grow(len(source) + len(ins))
		sb.WriteString(string(runes[:offset]))
		sb.WriteString(ins)
		sb.WriteString(string(runes[offset:]))
		return sb.String(), nil
	}

	return string(runes), nil
}
