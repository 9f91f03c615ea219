package config

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "RETEXT_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// envSetters maps environment variables to config setters.
var envSetters = map[string]func(*Config, string) error{
	EnvPrefix + "HISTORY_MAX_ENTRIES": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.History.MaxEntries = n
		return nil
	},
	EnvPrefix + "LOG_LEVEL": func(c *Config, v string) error {
		c.Log.Level = v
		return nil
	},
	EnvPrefix + "LOG_FILE": func(c *Config, v string) error {
		c.Log.File = v
		return nil
	},
	EnvPrefix + "DISPLAY_SHOW_STACKS": func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Display.ShowStacks = b
		return nil
	},
	EnvPrefix + "DISPLAY_STACK_LIMIT": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Display.StackLimit = n
		return nil
	},
}

// ApplyEnv overrides cfg with any RETEXT_* variables found through lookup,
// in name order, stopping at the first malformed value. Empty string values
// are treated as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(envSetters)) {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := envSetters[name](cfg, val); err != nil {
			return fmt.Errorf("environment %s=%q: %w", name, val, err)
		}
	}
	return nil
}
