// Package history provides reversible undo/redo history for plain text.
//
// Every mutation of a text buffer is recorded as a Delta: an immutable,
// invertible description of one substitution (offset, inserted text,
// removed text). A History keeps two stacks of deltas:
//
//   - past: edits currently in effect, available to undo
//   - future: edits that were undone, available to redo
//
// # Recording
//
// New edits enter through RecordEdit (or Record for a pre-built delta).
// Recording always clears the future stack: once the user diverges from
// the redo timeline it can no longer be reached.
//
//	h := history.New()
//	h.RecordEdit(0, 5, 0, "hello", "")
//
// # Undo and Redo
//
// The history never keeps its own copy of the buffer. The caller passes
// the authoritative text in and adopts the returned text:
//
//	res, err := h.Undo(text)
//	if err != nil {
//	    return err
//	}
//	text = res.Buffer
//
// Undo and Redo are all-or-nothing: the transform is computed before any
// stack is touched, so a failed call leaves both stacks unchanged.
//
// # Characters
//
// Offsets and lengths count Unicode code points, not bytes.
//
// # Concurrency
//
// A History is not safe for concurrent use. The owning session must
// serialize every call.
package history
