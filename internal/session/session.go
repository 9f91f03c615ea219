// Package session connects a text buffer to its edit history.
//
// A Session owns the authoritative text. Edits reported by a front end are
// recorded as deltas; undo and redo replace the text with the buffer the
// history returns. Neither path re-enters the other, so replaying a delta
// is never mistaken for a new edit.
//
// A Session is not safe for concurrent use. Front ends serialize calls on
// their own event loop.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dshills/retext/internal/engine/history"
	"github.com/dshills/retext/internal/event"
	"github.com/dshills/retext/internal/event/events"
	"github.com/dshills/retext/internal/event/topic"
	"github.com/dshills/retext/internal/logging"
)

// ErrInconsistentChange indicates a change notification that does not
// describe the transition from the previous text to the new one.
var ErrInconsistentChange = errors.New("inconsistent change notification")

// RawChange is a change notification as a text widget reports it: where
// the change starts and how many characters were added and removed there.
type RawChange struct {
	Offset     int
	AddedLen   int
	RemovedLen int
}

// State is a snapshot of what a front end displays.
type State struct {
	Text        string
	PastDepth   int
	FutureDepth int
	CanUndo     bool
	CanRedo     bool

	// Past and Future hold delta descriptions, most recent first.
	Past   []string
	Future []string
}

// Session is one editing session: a text and its history.
type Session struct {
	id      string
	text    string
	history *history.History
	bus     event.Publisher
	logger  *logging.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithText sets the initial text. The initial text is not an edit and
// cannot be undone.
func WithText(text string) Option {
	return func(s *Session) {
		s.text = text
	}
}

// WithHistory sets the history used by the session.
func WithHistory(h *history.History) Option {
	return func(s *Session) {
		if h != nil {
			s.history = h
		}
	}
}

// WithBus sets where history events are published.
func WithBus(p event.Publisher) Option {
	return func(s *Session) {
		s.bus = p
	}
}

// WithLogger sets the session logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a session with an empty text and an unbounded history
// unless options say otherwise.
func New(opts ...Option) *Session {
	s := &Session{
		id:     uuid.NewString(),
		logger: logging.NullLogger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.history == nil {
		s.history = history.New()
	}
	s.logger = s.logger.WithComponent("session").WithField("session", s.id[:8])
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Text returns the authoritative text.
func (s *Session) Text() string {
	return s.text
}

// History returns the underlying history.
func (s *Session) History() *history.History {
	return s.history
}

// Notify records the edits that turned the current text into next.
//
// Each change is given in the coordinates of the text before the
// notification, in ascending order and without overlap. Added text is read
// from next and removed text from the current text. Changes that add and
// remove nothing are ignored.
//
// Either every change is recorded and next becomes the text, or nothing
// changes and an error is returned.
func (s *Session) Notify(ctx context.Context, next string, changes ...RawChange) error {
	prev := []rune(s.text)
	post := []rune(next)

	deltas := make([]history.Delta, 0, len(changes))
	shift := 0
	end := 0
	for i, c := range changes {
		if c.AddedLen == 0 && c.RemovedLen == 0 {
			continue
		}
		if len(deltas) > 0 && c.Offset < end {
			return fmt.Errorf("change %d at offset %d overlaps previous change: %w", i, c.Offset, ErrInconsistentChange)
		}
		d, err := deriveDelta(prev, post, c, shift)
		if err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
		if err := checkUnchanged(prev, post, end, c.Offset, shift); err != nil {
			return fmt.Errorf("before change %d: %w", i, err)
		}
		deltas = append(deltas, d)
		shift += c.AddedLen - c.RemovedLen
		end = c.Offset + c.RemovedLen
	}

	if len(prev)+shift != len(post) {
		return fmt.Errorf("text length %d, want %d: %w", len(post), len(prev)+shift, ErrInconsistentChange)
	}
	if err := checkUnchanged(prev, post, end, len(prev), shift); err != nil {
		return fmt.Errorf("after last change: %w", err)
	}
	if len(deltas) == 0 {
		return nil
	}

	s.text = next
	for _, d := range deltas {
		depths := s.history.Record(d)
		s.logger.Debug("recorded %s (past %d)", d, depths.Past)
		s.publish(ctx, events.TopicHistoryRecorded, d.String())
	}
	return nil
}

// deriveDelta builds the delta for c. shift is the net length change of the
// changes before c, which moves c's offset in the text being edited.
func deriveDelta(prev, post []rune, c RawChange, shift int) (history.Delta, error) {
	if c.Offset < 0 || c.AddedLen < 0 || c.RemovedLen < 0 {
		return history.NewDelta(c.Offset, c.AddedLen, c.RemovedLen, "", "")
	}
	if c.Offset > len(prev) || c.RemovedLen > len(prev)-c.Offset {
		return history.Delta{}, fmt.Errorf("removed range [%d,+%d) outside previous text of %d characters: %w",
			c.Offset, c.RemovedLen, len(prev), ErrInconsistentChange)
	}
	at := c.Offset + shift
	if at < 0 || at > len(post) || c.AddedLen > len(post)-at {
		return history.Delta{}, fmt.Errorf("added range [%d,+%d) outside new text of %d characters: %w",
			at, c.AddedLen, len(post), ErrInconsistentChange)
	}

	added := string(post[at : at+c.AddedLen])
	removed := string(prev[c.Offset : c.Offset+c.RemovedLen])
	return history.NewDelta(at, c.AddedLen, c.RemovedLen, added, removed)
}

// checkUnchanged verifies that prev[from:to], which no change touches,
// appears unmodified in post shifted by shift characters.
func checkUnchanged(prev, post []rune, from, to, shift int) error {
	if from >= to {
		return nil
	}
	if !slices.Equal(prev[from:to], post[from+shift:to+shift]) {
		return fmt.Errorf("text outside the changes differs in [%d,%d): %w", from, to, ErrInconsistentChange)
	}
	return nil
}

// Replace makes next the text, recording the difference as one edit.
// Nothing is recorded when next equals the current text.
func (s *Session) Replace(ctx context.Context, next string) error {
	c, ok := Diff(s.text, next)
	if !ok {
		return nil
	}
	return s.Notify(ctx, next, c)
}

// Insert inserts text at offset.
func (s *Session) Insert(ctx context.Context, offset int, text string) error {
	return s.ReplaceRange(ctx, offset, 0, text)
}

// Delete removes n characters starting at offset.
func (s *Session) Delete(ctx context.Context, offset, n int) error {
	return s.ReplaceRange(ctx, offset, n, "")
}

// ReplaceRange replaces n characters at offset with text.
func (s *Session) ReplaceRange(ctx context.Context, offset, n int, text string) error {
	runes := []rune(s.text)
	if offset < 0 || n < 0 || offset > len(runes) || n > len(runes)-offset {
		return &history.DeltaError{
			Op:     "edit",
			Offset: offset,
			Length: n,
			Size:   len(runes),
			Err:    history.ErrOutOfRange,
		}
	}

	next := string(runes[:offset]) + text + string(runes[offset+n:])
	return s.Notify(ctx, next, RawChange{
		Offset:     offset,
		AddedLen:   utf8.RuneCountInString(text),
		RemovedLen: n,
	})
}

// Undo reverts the most recent edit. The text is left unchanged on error.
func (s *Session) Undo(ctx context.Context) error {
	res, err := s.history.Undo(s.text)
	if err != nil {
		s.logger.Debug("undo failed: %v", err)
		return err
	}
	s.text = res.Buffer
	s.logger.Debug("undid %s (past %d, future %d)", res.Delta, res.Depths.Past, res.Depths.Future)
	s.publish(ctx, events.TopicHistoryUndone, res.Delta.String())
	return nil
}

// Redo replays the most recently undone edit. The text is left unchanged
// on error.
func (s *Session) Redo(ctx context.Context) error {
	res, err := s.history.Redo(s.text)
	if err != nil {
		s.logger.Debug("redo failed: %v", err)
		return err
	}
	s.text = res.Buffer
	s.logger.Debug("redid %s (past %d, future %d)", res.Delta, res.Depths.Past, res.Depths.Future)
	s.publish(ctx, events.TopicHistoryRedone, res.Delta.String())
	return nil
}

// Checkpoint marks the current position in the history.
func (s *Session) Checkpoint() history.Checkpoint {
	return s.history.CreateCheckpoint()
}

// UndoTo undoes every edit made since cp. If a step fails, the text is left
// at the last edit undone successfully and the error is returned.
func (s *Session) UndoTo(ctx context.Context, cp history.Checkpoint) error {
	return s.jump(ctx, "undo", cp, s.history.UndoToCheckpoint, events.TopicHistoryUndone)
}

// RedoTo redoes undone edits until the history is back at cp or nothing
// is left to redo.
func (s *Session) RedoTo(ctx context.Context, cp history.Checkpoint) error {
	return s.jump(ctx, "redo", cp, s.history.RedoToCheckpoint, events.TopicHistoryRedone)
}

func (s *Session) jump(ctx context.Context, name string, cp history.Checkpoint,
	fn func(history.Checkpoint, string) (string, error), t topic.Topic) error {
	before := s.history.Depths()
	text, err := fn(cp, s.text)
	s.text = text
	if err != nil {
		s.logger.Debug("%s to checkpoint %d stopped: %v", name, cp.Position(), err)
	}
	if after := s.history.Depths(); after != before {
		s.logger.Debug("%s to checkpoint %d (past %d, future %d)", name, cp.Position(), after.Past, after.Future)
		s.publish(ctx, t, "")
	}
	return err
}

// Clear empties both stacks. The text is kept.
func (s *Session) Clear(ctx context.Context) {
	s.history.Clear()
	s.logger.Debug("history cleared")
	s.publish(ctx, events.TopicHistoryCleared, "")
}

// State returns a snapshot for display.
func (s *Session) State() State {
	d := s.history.Depths()
	return State{
		Text:        s.text,
		PastDepth:   d.Past,
		FutureDepth: d.Future,
		CanUndo:     d.Past > 0,
		CanRedo:     d.Future > 0,
		Past:        s.history.DescribePast(),
		Future:      s.history.DescribeFuture(),
	}
}

// publish sends a history event. Handler failures are logged and never
// undo the operation that triggered them.
func (s *Session) publish(ctx context.Context, t topic.Topic, delta string) {
	if s.bus == nil {
		return
	}
	d := s.history.Depths()
	evt := event.NewEvent(t, events.HistoryChanged{
		SessionID:   s.id,
		Text:        s.text,
		Delta:       delta,
		PastDepth:   d.Past,
		FutureDepth: d.Future,
	}, "session")
	if err := event.Publish(ctx, s.bus, evt); err != nil {
		s.logger.Warn("publishing %s: %v", t, err)
	}
}
