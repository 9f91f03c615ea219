package events

import "github.com/dshills/retext/internal/event/topic"

// History event topics.
const (
	// TopicHistoryRecorded is published when a new edit enters the past stack.
	TopicHistoryRecorded topic.Topic = "history.recorded"

	// TopicHistoryUndone is published after a successful undo.
	TopicHistoryUndone topic.Topic = "history.undone"

	// TopicHistoryRedone is published after a successful redo.
	TopicHistoryRedone topic.Topic = "history.redone"

	// TopicHistoryCleared is published when both stacks are emptied.
	TopicHistoryCleared topic.Topic = "history.cleared"

	// TopicHistoryAll matches every history topic.
	TopicHistoryAll topic.Topic = "history.*"
)

// HistoryChanged is the payload of every history event. It carries what an
// observer needs to refresh its display after the operation.
type HistoryChanged struct {
	// SessionID identifies the editing session.
	SessionID string

	// Text is the authoritative buffer content after the operation.
	Text string

	// Delta is the display string of the delta involved, empty for clears.
	Delta string

	// PastDepth is the number of edits available to undo.
	PastDepth int

	// FutureDepth is the number of edits available to redo.
	FutureDepth int
}
