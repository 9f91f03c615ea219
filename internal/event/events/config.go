package events

import "github.com/dshills/retext/internal/event/topic"

// Config event topics.
const (
	// TopicConfigReloaded is published after a watched config file was
	// reloaded successfully.
	TopicConfigReloaded topic.Topic = "config.reloaded"

	// TopicConfigReloadFailed is published when a watched config file
	// changed but could not be loaded.
	TopicConfigReloadFailed topic.Topic = "config.reload.failed"
)

// ConfigReloaded is published when the configuration file changes.
type ConfigReloaded struct {
	// Path is the configuration file that changed.
	Path string

	// Error is set for TopicConfigReloadFailed.
	Error string
}
