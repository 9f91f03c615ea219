// Package config loads retext configuration.
//
// Configuration is read from a single file, TOML or YAML depending on the
// extension, layered over built-in defaults and then over RETEXT_*
// environment variables:
//
//	[history]
//	max_entries = 0      # 0 keeps every edit
//
//	[log]
//	level = "info"
//	file = ""            # empty discards logs in the terminal UI
//
//	[display]
//	show_stacks = true
//	stack_limit = 10
//
// A Watcher reloads the file when it changes on disk.
package config
