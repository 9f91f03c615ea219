package history

// Depths holds the sizes of both stacks.
type Depths struct {
	Past   int
	Future int
}

// Result is returned by Undo and Redo.
type Result struct {
	// Buffer is the new authoritative text. The caller must adopt it
	// before making any further call.
	Buffer string

	// Delta is the delta that was applied.
	Delta Delta

	// Depths are the stack sizes after the operation.
	Depths Depths
}

// History manages the past and future stacks for one editing session.
type History struct {
	past   []Delta // most recent last
	future []Delta // most recent last

	// Configuration
	maxEntries int // 0 means unbounded

	// evicted counts past entries dropped by trim or Clear.
	evicted int
}

// Option configures a History during creation.
type Option func(*History)

// WithMaxEntries caps the past stack. When exceeded, the oldest entries
// are dropped. Zero or less means unbounded.
func WithMaxEntries(max int) Option {
	return func(h *History) {
		if max > 0 {
			h.maxEntries = max
		}
	}
}

// New creates an empty history.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RecordEdit constructs a delta from a raw edit, pushes it onto the past
// stack and clears the future stack.
//
// It must only be called for genuinely new edits, never to replay an undo
// or redo. Construction errors leave the history untouched.
func (h *History) RecordEdit(offset, addedLen, removedLen int, added, removed string) (Depths, error) {
	d, err := NewDelta(offset, addedLen, removedLen, added, removed)
	if err != nil {
		return h.Depths(), err
	}
	return h.Record(d), nil
}

// Record pushes a pre-built delta as a new edit.
// Clears the future stack.
func (h *History) Record(d Delta) Depths {
	h.past = append(h.past, d)

	// Branch discard
	h.future = nil

	h.trim()
	return h.Depths()
}

// trim enforces maxEntries by removing the oldest past entries.
func (h *History) trim() {
	if h.maxEntries <= 0 || len(h.past) <= h.maxEntries {
		return
	}
	excess := len(h.past) - h.maxEntries
	h.evicted += excess
	kept := make([]Delta, h.maxEntries)
	copy(kept, h.past[excess:])
	h.past = kept
}

// Undo reverts the most recent edit against buffer and moves it to the
// future stack. The stacks are only changed if the transform succeeds.
func (h *History) Undo(buffer string) (Result, error) {
	if len(h.past) == 0 {
		return Result{Buffer: buffer, Depths: h.Depths()}, ErrNothingToUndo
	}

	d := h.past[len(h.past)-1]
	next, err := d.ApplyInverse(buffer)
	if err != nil {
		return Result{Buffer: buffer, Depths: h.Depths()}, err
	}

	h.past = h.past[:len(h.past)-1]
	h.future = append(h.future, d)

	return Result{Buffer: next, Delta: d, Depths: h.Depths()}, nil
}

// Redo replays the most recently undone edit against buffer and moves it
// back to the past stack. This is not a new edit: the rest of the future
// stack is kept.
func (h *History) Redo(buffer string) (Result, error) {
	if len(h.future) == 0 {
		return Result{Buffer: buffer, Depths: h.Depths()}, ErrNothingToRedo
	}

	d := h.future[len(h.future)-1]
	next, err := d.ApplyForward(buffer)
	if err != nil {
		return Result{Buffer: buffer, Depths: h.Depths()}, err
	}

	h.future = h.future[:len(h.future)-1]
	h.past = append(h.past, d)
	h.trim()

	return Result{Buffer: next, Delta: d, Depths: h.Depths()}, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	return len(h.past) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	return len(h.future) > 0
}

// PastDepth returns the number of deltas available to undo.
func (h *History) PastDepth() int {
	return len(h.past)
}

// FutureDepth returns the number of deltas available to redo.
func (h *History) FutureDepth() int {
	return len(h.future)
}

// Depths returns both stack sizes.
func (h *History) Depths() Depths {
	return Depths{Past: len(h.past), Future: len(h.future)}
}

// PeekUndo returns the next delta Undo would apply.
func (h *History) PeekUndo() (Delta, bool) {
	if len(h.past) == 0 {
		return Delta{}, false
	}
	return h.past[len(h.past)-1], true
}

// PeekRedo returns the next delta Redo would apply.
func (h *History) PeekRedo() (Delta, bool) {
	if len(h.future) == 0 {
		return Delta{}, false
	}
	return h.future[len(h.future)-1], true
}

// SnapshotPast returns the past stack ordered from most recent to oldest.
// The returned slice is a copy.
func (h *History) SnapshotPast() []Delta {
	return reversed(h.past)
}

// SnapshotFuture returns the future stack ordered from most recent to oldest.
// The returned slice is a copy.
func (h *History) SnapshotFuture() []Delta {
	return reversed(h.future)
}

// DescribePast returns display strings for the past stack, most recent first.
func (h *History) DescribePast() []string {
	return describe(h.past)
}

// DescribeFuture returns display strings for the future stack, most recent first.
func (h *History) DescribeFuture() []string {
	return describe(h.future)
}

// Clear removes all undo/redo history.
func (h *History) Clear() {
	h.evicted += len(h.past)
	h.past = nil
	h.future = nil
}

// SetMaxEntries changes the cap on the past stack.
// If the current stack is larger, oldest entries are removed.
func (h *History) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}
	h.maxEntries = max
	h.trim()
}

// MaxEntries returns the cap on the past stack, 0 if unbounded.
func (h *History) MaxEntries() int {
	return h.maxEntries
}

func reversed(stack []Delta) []Delta {
	result := make([]Delta, len(stack))
	for i, d := range stack {
		result[len(stack)-1-i] = d
	}
	return result
}

func describe(stack []Delta) []string {
	result := make([]string, len(stack))
	for i, d := range stack {
		result[len(stack)-1-i] = d.String()
	}
	return result
}
