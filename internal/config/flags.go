package config

import (
	"flag"
)

// parseFlags registers the global flags on fs, seeded with the values
// loaded so far, and parses args.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasklist", flag.ContinueOnError)
	}

	// Store
	fs.StringVar(&cfg.Store.Backend, "store", cfg.Store.Backend, "Store backend (file|sqlite|mysql|memory)")
	fs.StringVar(&cfg.Store.Path, "store-path", cfg.Store.Path, "Store file for the file and sqlite backends")
	fs.StringVar(&cfg.Store.DSN, "store-dsn", cfg.Store.DSN, "MySQL data source name")
	fs.StringVar(&cfg.Store.Key, "store-key", cfg.Store.Key, "Key holding the task list")

	fs.StringVar(&cfg.NoticeDuration, "notice", cfg.NoticeDuration, "How long the completion notice stays visible")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Include caller location in log output")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for TUI run logs")

	return fs.Parse(args)
}
