package config

import (
	"os"
	"strings"
)

// loadFromEnv overrides config from TASKLIST_* environment variables.
func loadFromEnv(cfg *Config) {
	strVars := []struct {
		name   string
		target *string
	}{
		{"TASKLIST_STORE", &cfg.Store.Backend},
		{"TASKLIST_STORE_PATH", &cfg.Store.Path},
		{"TASKLIST_STORE_DSN", &cfg.Store.DSN},
		{"TASKLIST_STORE_KEY", &cfg.Store.Key},
		{"TASKLIST_NOTICE_DURATION", &cfg.NoticeDuration},
		{"TASKLIST_LOG_LEVEL", &cfg.LogLevel},
		{"TASKLIST_LOG_FORMAT", &cfg.LogFormat},
		{"TASKLIST_LOG_DIR", &cfg.LogDir},
	}
	for _, v := range strVars {
		if val := os.Getenv(v.name); val != "" {
			*v.target = val
		}
	}

	if v := os.Getenv("TASKLIST_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
	}
	if v := os.Getenv("TASKLIST_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
	}
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
