package history

import "fmt"

// Checkpoint represents a point in history that can be returned to.
type Checkpoint struct {
	// position counts every edit on the past stack when the checkpoint
	// was taken, including those later evicted by the entry cap.
	position int
}

// Position returns the number of edits behind the checkpoint.
func (c Checkpoint) Position() int {
	return c.position
}

// CreateCheckpoint creates a checkpoint at the current history position.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{position: h.position()}
}

// position is the absolute index of the top of the past stack.
func (h *History) position() int {
	return h.evicted + len(h.past)
}

// UndoToCheckpoint undoes all edits made since the checkpoint and returns
// the resulting buffer. On error the buffer reached so far is returned
// together with the error; the history matches that buffer.
//
// Returns ErrCheckpointEvicted without undoing anything if the edits the
// checkpoint points into were dropped by the entry cap or by Clear.
func (h *History) UndoToCheckpoint(cp Checkpoint, buffer string) (string, error) {
	if cp.position < h.evicted {
		return buffer, fmt.Errorf("checkpoint at %d, oldest reachable %d: %w", cp.position, h.evicted, ErrCheckpointEvicted)
	}
	for h.position() > cp.position {
		res, err := h.Undo(buffer)
		if err != nil {
			return buffer, err
		}
		buffer = res.Buffer
	}
	return buffer, nil
}

// RedoToCheckpoint redoes edits until the past stack is back at the
// checkpoint or the future stack runs out.
func (h *History) RedoToCheckpoint(cp Checkpoint, buffer string) (string, error) {
	if cp.position < h.evicted {
		return buffer, fmt.Errorf("checkpoint at %d, oldest reachable %d: %w", cp.position, h.evicted, ErrCheckpointEvicted)
	}
	for h.position() < cp.position && h.CanRedo() {
		res, err := h.Redo(buffer)
		if err != nil {
			return buffer, err
		}
		buffer = res.Buffer
	}
	return buffer, nil
}
