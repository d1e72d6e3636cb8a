// Package config provides the configuration of the Lexi editor.
//
// Configuration is read once at startup from a TOML or YAML file (chosen
// by extension) and then overridden by LEXI_* environment variables.
// The file mirrors the sections of the editor's settings document:
//
//	[app]
//	program_name = "Lexi"
//	description = "A document editor"
//	operating_system = "Linux"
//
//	[user]
//	auto_save = false
//	word_dict = "words.txt"   # relative to the config file
//
//	[logging]
//	enabled = true
//	level = "log"
//	wrap_lines = true
//	wrap_count = 80
//
//	[[logging.stream]]
//	level = "error"
//	show_date = true
//	filename = "lexi-errors.log"
//
//	[history]
//	max_depth = 1000
//
// Values are passed explicitly to the components that need them; there is
// no global configuration instance.
package config
