// Package events defines the typed event payloads published on the retext
// event bus.
//
// Each payload has a topic constant next to it. Events are grouped by the
// module that publishes them:
//
//   - History events: edits recorded, undone, redone, history cleared
//   - Config events: configuration reloaded from disk
//
// # Usage
//
//	evt := event.NewEvent(events.TopicHistoryUndone, events.HistoryChanged{...}, "session")
//	err := event.Publish(ctx, bus, evt)
//
// Subscribers can use wildcards: "history.*" receives every history event.
package events
