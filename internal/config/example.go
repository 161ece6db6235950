package config

// ExampleConfig returns an example configuration showing all available options.
// Top-level keys come before the [store] table; TOML assigns any key after a
// table header to that table.
func ExampleConfig() string {
	return `# tasklist configuration file
# Values can be overridden by TASKLIST_* environment variables or CLI flags.

# How long "Task completed!" stays visible
notice_duration = "2s"

# Logging
log_level = "warn"     # debug, info, warn, error
log_format = "text"    # text, json, logfmt
log_timestamps = false
log_caller = false

# Run logs written by the TUI (supports ~ expansion and %VAR% on Windows)
log_dir = "~/.tasklist/logs"

[store]
# Backend: file, sqlite, mysql or memory
backend = "file"

# Store location for the file and sqlite backends
# (defaults: ~/.tasklist/store.json, ~/.tasklist/tasklist.db)
# path = "~/.tasklist/store.json"

# Data source name, required for mysql
# dsn = "user:pass@tcp(127.0.0.1:3306)/tasklist"

# Key holding the task list
key = "tasks"
`
}
