// Package config provides inkwell's configuration.
//
// Configuration is assembled from three layers, later layers overriding
// earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default $XDG_CONFIG_HOME/inkwell/config.toml
//  3. INKWELL_* environment variables, optionally seeded from .env files
//
// The merged result is decoded strictly (unknown keys are errors) and
// validated with struct tags before it is returned.
//
// # File format
//
//	[editor]
//	wrap_width = 80
//	left_padding = 2
//	tab_width = 4
//	reveal = false
//	page_fraction = 0.9
//
//	[cache]
//	enabled = true
//	max_entries = 4096
//
//	[log]
//	level = "info"
//	file = ""
//	max_size_mb = 10
//	max_backups = 3
//	max_age_days = 28
//	console = false
//
//	[theme]
//	path = ""
//
// # Environment
//
// INKWELL_EDITOR_WRAP_WIDTH=72 sets editor.wrap_width. The first word after
// the prefix selects the section; the rest, lower-cased, is the key.
//
// # Live reload
//
// Watch reloads the configuration when the config or theme file changes
// and hands the result to a callback. The callback runs on the watcher's
// goroutine; front-ends should forward it to their own event loop.
package config
