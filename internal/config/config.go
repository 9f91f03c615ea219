package config

import (
	"errors"

	"github.com/dshills/retext/internal/logging"
)

// Default configuration values.
const (
	DefaultMaxEntries = 0
	DefaultLogLevel   = "info"
	DefaultStackLimit = 10
)

// Config is the complete retext configuration.
type Config struct {
	History HistoryConfig `toml:"history" yaml:"history"`
	Log     LogConfig     `toml:"log" yaml:"log"`
	Display DisplayConfig `toml:"display" yaml:"display"`
}

// HistoryConfig configures the undo/redo history.
type HistoryConfig struct {
	// MaxEntries caps the past stack. 0 means unbounded.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" yaml:"level"`
	// File receives log output. Empty means stderr in batch mode and
	// nowhere in the terminal UI.
	File string `toml:"file" yaml:"file"`
}

// DisplayConfig configures the terminal UI.
type DisplayConfig struct {
	// ShowStacks renders the past and future stacks next to the text.
	ShowStacks bool `toml:"show_stacks" yaml:"show_stacks"`
	// StackLimit is the number of entries rendered per stack.
	StackLimit int `toml:"stack_limit" yaml:"stack_limit"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{MaxEntries: DefaultMaxEntries},
		Log:     LogConfig{Level: DefaultLogLevel},
		Display: DisplayConfig{ShowStacks: true, StackLimit: DefaultStackLimit},
	}
}

// Validate checks every setting and returns all failures joined.
func (c *Config) Validate() error {
	var errs []error

	if c.History.MaxEntries < 0 {
		errs = append(errs, &ValidationError{
			Path:    "history.max_entries",
			Value:   c.History.MaxEntries,
			Message: "must be zero (unbounded) or positive",
		})
	}
	if !logging.ValidLevel(c.Log.Level) {
		errs = append(errs, &ValidationError{
			Path:    "log.level",
			Value:   c.Log.Level,
			Message: "must be one of debug, info, warn, error",
		})
	}
	if c.Display.StackLimit < 0 {
		errs = append(errs, &ValidationError{
			Path:    "display.stack_limit",
			Value:   c.Display.StackLimit,
			Message: "must not be negative",
		})
	}

	return errors.Join(errs...)
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() logging.Level {
	return logging.ParseLevel(c.Log.Level)
}
