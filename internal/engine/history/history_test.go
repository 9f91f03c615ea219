package history

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// record is a helper that records an edit and fails the test on error.
func record(t *testing.T, h *History, offset, addedLen, removedLen int, added, removed string) Depths {
	t.Helper()
	depths, err := h.RecordEdit(offset, addedLen, removedLen, added, removed)
	if err != nil {
		t.Fatalf("RecordEdit: %v", err)
	}
	return depths
}

func TestHistoryEmpty(t *testing.T) {
	h := New()

	if h.CanUndo() || h.CanRedo() {
		t.Error("fresh history should have nothing to undo or redo")
	}
	if _, err := h.Undo(""); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("Undo err = %v, want ErrNothingToUndo", err)
	}
	if _, err := h.Redo(""); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v, want ErrNothingToRedo", err)
	}
	if h.PastDepth() != 0 || h.FutureDepth() != 0 {
		t.Error("failed calls changed depths")
	}
}

func TestHistoryScenarioHelloWorld(t *testing.T) {
	h := New()
	buf := ""

	depths := record(t, h, 0, 5, 0, "hello", "")
	buf = "hello"
	if depths != (Depths{Past: 1, Future: 0}) {
		t.Errorf("after first edit depths = %+v", depths)
	}

	depths = record(t, h, 5, 6, 0, " world", "")
	buf = "hello world"
	if depths != (Depths{Past: 2, Future: 0}) {
		t.Errorf("after second edit depths = %+v", depths)
	}

	steps := []struct {
		redo   bool
		buffer string
		depths Depths
	}{
		{false, "hello", Depths{Past: 1, Future: 1}},
		{false, "", Depths{Past: 0, Future: 2}},
		{true, "hello", Depths{Past: 1, Future: 1}},
	}

	for i, step := range steps {
		var res Result
		var err error
		if step.redo {
			res, err = h.Redo(buf)
		} else {
			res, err = h.Undo(buf)
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		buf = res.Buffer
		if buf != step.buffer {
			t.Errorf("step %d: buffer = %q, want %q", i, buf, step.buffer)
		}
		if res.Depths != step.depths {
			t.Errorf("step %d: depths = %+v, want %+v", i, res.Depths, step.depths)
		}
	}
}

func TestHistoryScenarioDelete(t *testing.T) {
	h := New()
	record(t, h, 1, 0, 3, "", "ell")

	res, err := h.Undo("ho")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if res.Buffer != "hello" {
		t.Errorf("got %q, want %q", res.Buffer, "hello")
	}
	if res.Delta.Removed() != "ell" {
		t.Errorf("applied delta = %v", res.Delta)
	}
}

func TestHistoryBranchDiscard(t *testing.T) {
	h := New()
	buf := ""
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 1, 0, "b", "")
	buf = "ab"

	res, _ := h.Undo(buf)
	buf = res.Buffer
	if h.FutureDepth() != 1 {
		t.Fatalf("FutureDepth() = %d, want 1", h.FutureDepth())
	}

	depths := record(t, h, 1, 1, 0, "c", "")
	if depths.Future != 0 || h.CanRedo() {
		t.Error("new edit should discard the future stack")
	}
	if depths.Past != 2 {
		t.Errorf("Past = %d, want 2", depths.Past)
	}
	if _, err := h.Redo("ac"); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("Redo err = %v, want ErrNothingToRedo", err)
	}
}

func TestHistoryRedoKeepsRemainingFuture(t *testing.T) {
	h := New()
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 1, 0, "b", "")
	record(t, h, 2, 1, 0, "c", "")

	buf := "abc"
	for i := 0; i < 3; i++ {
		res, err := h.Undo(buf)
		if err != nil {
			t.Fatal(err)
		}
		buf = res.Buffer
	}

	res, err := h.Redo(buf)
	if err != nil {
		t.Fatal(err)
	}
	if res.Buffer != "a" {
		t.Errorf("got %q, want %q", res.Buffer, "a")
	}
	if res.Depths != (Depths{Past: 1, Future: 2}) {
		t.Errorf("depths = %+v", res.Depths)
	}
}

func TestHistoryUndoRedoConservation(t *testing.T) {
	h := New()
	record(t, h, 0, 5, 0, "hello", "")
	record(t, h, 0, 5, 5, "HELLO", "hello")
	buf := "HELLO"
	before := h.Depths()

	undone, err := h.Undo(buf)
	if err != nil {
		t.Fatal(err)
	}
	redone, err := h.Redo(undone.Buffer)
	if err != nil {
		t.Fatal(err)
	}

	if redone.Buffer != buf {
		t.Errorf("buffer = %q, want %q", redone.Buffer, buf)
	}
	if h.Depths() != before {
		t.Errorf("depths = %+v, want %+v", h.Depths(), before)
	}
}

func TestHistoryTotalsConserved(t *testing.T) {
	h := New()
	buf := ""
	total := 0
	for _, s := range []string{"a", "b", "c", "d"} {
		record(t, h, len(buf), 1, 0, s, "")
		buf += s
		total++
	}

	ops := []bool{false, false, true, false, false, false, true, true}
	for _, redo := range ops {
		var res Result
		var err error
		if redo {
			res, err = h.Redo(buf)
		} else {
			res, err = h.Undo(buf)
		}
		if err != nil {
			t.Fatal(err)
		}
		buf = res.Buffer
		if got := h.PastDepth() + h.FutureDepth(); got != total {
			t.Errorf("past+future = %d, want %d", got, total)
		}
	}
}

func TestHistoryInvalidRecordKeepsState(t *testing.T) {
	h := New()
	record(t, h, 0, 1, 0, "a", "")
	if _, err := h.Undo("a"); err != nil {
		t.Fatal(err)
	}

	depths, err := h.RecordEdit(0, 0, 0, "", "")
	if !errors.Is(err, ErrInvalidDelta) {
		t.Fatalf("err = %v, want ErrInvalidDelta", err)
	}
	if depths != (Depths{Past: 0, Future: 1}) {
		t.Errorf("failed record changed depths: %+v", depths)
	}
}

func TestHistoryUndoFailureIsAtomic(t *testing.T) {
	h := New()
	record(t, h, 0, 5, 0, "hello", "")
	record(t, h, 5, 6, 0, " world", "")

	// Buffer desynchronized from the history.
	_, err := h.Undo("hi")
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if h.Depths() != (Depths{Past: 2, Future: 0}) {
		t.Errorf("depths = %+v after failed undo", h.Depths())
	}

	top, ok := h.PeekUndo()
	if !ok || top.Added() != " world" {
		t.Errorf("top delta lost: %v", top)
	}

	res, err := h.Undo("hello world")
	if err != nil || res.Buffer != "hello" {
		t.Errorf("Undo after failure = %q, %v", res.Buffer, err)
	}
}

func TestHistoryRedoFailureIsAtomic(t *testing.T) {
	h := New()
	record(t, h, 3, 2, 0, "lo", "")
	res, err := h.Undo("hello")
	if err != nil {
		t.Fatal(err)
	}

	_, err = h.Redo("")
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if h.Depths() != (Depths{Past: 0, Future: 1}) {
		t.Errorf("depths = %+v after failed redo", h.Depths())
	}

	res, err = h.Redo(res.Buffer)
	if err != nil || res.Buffer != "hello" {
		t.Errorf("Redo after failure = %q, %v", res.Buffer, err)
	}
}

func TestHistorySnapshots(t *testing.T) {
	h := New()
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 1, 0, "b", "")
	record(t, h, 2, 1, 0, "c", "")
	if _, err := h.Undo("abc"); err != nil {
		t.Fatal(err)
	}

	wantPast := []string{"(1,1,0) + b - <none>", "(0,1,0) + a - <none>"}
	if diff := cmp.Diff(wantPast, h.DescribePast()); diff != "" {
		t.Errorf("DescribePast mismatch (-want +got):\n%s", diff)
	}
	wantFuture := []string{"(2,1,0) + c - <none>"}
	if diff := cmp.Diff(wantFuture, h.DescribeFuture()); diff != "" {
		t.Errorf("DescribeFuture mismatch (-want +got):\n%s", diff)
	}

	snap := h.SnapshotPast()
	if len(snap) != 2 || snap[0].Added() != "b" || snap[1].Added() != "a" {
		t.Fatalf("SnapshotPast order wrong: %v", snap)
	}

	// Mutating the snapshot must not affect the history.
	snap[0] = Delta{}
	if top, _ := h.PeekUndo(); top.Added() != "b" {
		t.Error("snapshot aliases the past stack")
	}

	if fut := h.SnapshotFuture(); len(fut) != 1 || fut[0].Added() != "c" {
		t.Errorf("SnapshotFuture = %v", fut)
	}
}

func TestHistoryPeek(t *testing.T) {
	h := New()
	if _, ok := h.PeekUndo(); ok {
		t.Error("PeekUndo on empty history")
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo on empty history")
	}

	record(t, h, 0, 1, 0, "x", "")
	if d, ok := h.PeekUndo(); !ok || d.Added() != "x" {
		t.Error("PeekUndo wrong")
	}
	h.Undo("x")
	if d, ok := h.PeekRedo(); !ok || d.Added() != "x" {
		t.Error("PeekRedo wrong")
	}
}

func TestHistoryClear(t *testing.T) {
	h := New()
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 1, 0, "b", "")
	h.Undo("ab")

	h.Clear()

	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	h := New(WithMaxEntries(3))
	buf := ""
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		record(t, h, len(buf), 1, 0, s, "")
		buf += s
	}

	if h.PastDepth() != 3 {
		t.Fatalf("PastDepth() = %d, want 3", h.PastDepth())
	}

	for h.CanUndo() {
		res, err := h.Undo(buf)
		if err != nil {
			t.Fatal(err)
		}
		buf = res.Buffer
	}
	if buf != "ab" {
		t.Errorf("oldest edits should be evicted, got %q", buf)
	}
}

func TestHistorySetMaxEntries(t *testing.T) {
	h := New()
	if h.MaxEntries() != 0 {
		t.Errorf("default MaxEntries() = %d, want 0", h.MaxEntries())
	}

	for i := 0; i < 10; i++ {
		record(t, h, i, 1, 0, "x", "")
	}
	h.SetMaxEntries(4)
	if h.PastDepth() != 4 {
		t.Errorf("PastDepth() = %d, want 4", h.PastDepth())
	}

	h.SetMaxEntries(-1)
	if h.MaxEntries() != 0 {
		t.Errorf("negative max should mean unbounded, got %d", h.MaxEntries())
	}
}

func TestHistoryCheckpoint(t *testing.T) {
	h := New()
	record(t, h, 0, 5, 0, "hello", "")
	cp := h.CreateCheckpoint()
	if cp.Position() != 1 {
		t.Errorf("checkpoint position = %d, want 1", cp.Position())
	}

	record(t, h, 5, 1, 0, ",", "")
	record(t, h, 6, 6, 0, " world", "")

	buf, err := h.UndoToCheckpoint(cp, "hello, world")
	if err != nil {
		t.Fatal(err)
	}
	if buf != "hello" {
		t.Errorf("UndoToCheckpoint = %q, want %q", buf, "hello")
	}
	if h.FutureDepth() != 2 {
		t.Errorf("FutureDepth() = %d, want 2", h.FutureDepth())
	}

	end := Checkpoint{position: 3}
	buf, err = h.RedoToCheckpoint(end, buf)
	if err != nil {
		t.Fatal(err)
	}
	if buf != "hello, world" {
		t.Errorf("RedoToCheckpoint = %q", buf)
	}
}

func TestHistoryUndoToCheckpointStopsOnError(t *testing.T) {
	h := New()
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 2, 0, "bb", "")
	record(t, h, 0, 0, 1, "", "q")

	// Only the last delta fits this buffer.
	buf, err := h.UndoToCheckpoint(Checkpoint{}, "")
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
	if buf != "q" {
		t.Errorf("buffer = %q, want %q", buf, "q")
	}
	if h.Depths() != (Depths{Past: 2, Future: 1}) {
		t.Errorf("depths = %+v", h.Depths())
	}
}

func TestHistoryCheckpointWithMaxEntries(t *testing.T) {
	h := New(WithMaxEntries(2))
	record(t, h, 0, 1, 0, "a", "")
	record(t, h, 1, 1, 0, "b", "")
	cp := h.CreateCheckpoint()
	record(t, h, 2, 1, 0, "c", "")

	if h.PastDepth() != 2 {
		t.Fatalf("PastDepth() = %d, want 2", h.PastDepth())
	}

	buf, err := h.UndoToCheckpoint(cp, "abc")
	if err != nil {
		t.Fatalf("UndoToCheckpoint: %v", err)
	}
	if buf != "ab" {
		t.Errorf("UndoToCheckpoint = %q, want %q", buf, "ab")
	}
	if h.Depths() != (Depths{Past: 1, Future: 1}) {
		t.Errorf("depths = %+v", h.Depths())
	}

	buf, err = h.RedoToCheckpoint(Checkpoint{position: 3}, buf)
	if err != nil || buf != "abc" {
		t.Errorf("RedoToCheckpoint = %q, %v", buf, err)
	}
}

func TestHistoryCheckpointEvicted(t *testing.T) {
	h := New(WithMaxEntries(2))
	record(t, h, 0, 1, 0, "a", "")
	cp := h.CreateCheckpoint()
	record(t, h, 1, 1, 0, "b", "")
	record(t, h, 2, 1, 0, "c", "")
	record(t, h, 3, 1, 0, "d", "")

	// The edit right after the checkpoint ("b") is gone.
	buf, err := h.UndoToCheckpoint(cp, "abcd")
	if !errors.Is(err, ErrCheckpointEvicted) {
		t.Fatalf("err = %v, want ErrCheckpointEvicted", err)
	}
	if buf != "abcd" || h.Depths() != (Depths{Past: 2}) {
		t.Errorf("history changed: buffer %q, depths %+v", buf, h.Depths())
	}

	// Clear evicts everything recorded so far.
	latest := h.CreateCheckpoint()
	h.Clear()
	if _, err := h.UndoToCheckpoint(Checkpoint{position: latest.Position() - 1}, "abcd"); !errors.Is(err, ErrCheckpointEvicted) {
		t.Errorf("after Clear err = %v, want ErrCheckpointEvicted", err)
	}
	if _, err := h.UndoToCheckpoint(latest, "abcd"); err != nil {
		t.Errorf("checkpoint at the clear point: %v", err)
	}
}
