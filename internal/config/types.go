package config

import (
	"time"
)

// Default values.
const (
	DefaultBackend        = "file"
	DefaultDataDir        = "~/.tasklist"
	DefaultFileName       = "store.json"
	DefaultSQLiteName     = "tasklist.db"
	DefaultKey            = "tasks"
	DefaultNoticeDuration = "2s"
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = "text"
	DefaultLogDir         = "~/.tasklist/logs"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	Store StoreConfig `toml:"store"`

	// NoticeDuration is how long "Task completed!" stays visible, as a Go
	// duration string. Notice holds the parsed value.
	NoticeDuration string        `toml:"notice_duration"`
	Notice         time.Duration `toml:"-"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
	LogDir        string `toml:"log_dir"`

	// Files lists the config files that were applied, lowest priority first.
	Files []string `toml:"-"`
}

// StoreConfig selects where the task snapshot lives.
type StoreConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
	Key     string `toml:"key"`
}
