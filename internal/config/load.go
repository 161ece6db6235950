package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

var backends = []string{"file", "sqlite", "mysql", "memory"}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasklist/tasklist.toml or OS-specific config dir)
// 3. Project config file (tasklist.toml or .tasklist.toml in current directory)
// 4. Environment variables
// 5. CLI flags
//
// Global flags are registered on fs and parsed from args; fs.Args() holds
// the remaining arguments afterwards.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. User config file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Project config file (overrides user config)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Environment
	loadFromEnv(cfg)

	// 5. CLI flags
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

// loadConfigFile loads TOML config from the given file. Keys the file does
// not mention keep their current values.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultBackend
	}
	if !validBackend(cfg.Store.Backend) {
		return fmt.Errorf("unknown store backend %q (want one of %s)",
			cfg.Store.Backend, strings.Join(backends, ", "))
	}
	if cfg.Store.Backend == "mysql" && strings.TrimSpace(cfg.Store.DSN) == "" {
		return errors.New("store backend mysql requires store.dsn")
	}
	if strings.TrimSpace(cfg.Store.Key) == "" {
		cfg.Store.Key = DefaultKey
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = defaultStorePath(cfg.Store.Backend)
	}
	cfg.Store.Path = expandPath(cfg.Store.Path)
	if cfg.Store.Path != "" && !filepath.IsAbs(cfg.Store.Path) {
		abs, err := filepath.Abs(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("resolving store path: %w", err)
		}
		cfg.Store.Path = abs
	}
	cfg.LogDir = expandPath(cfg.LogDir)

	if cfg.NoticeDuration == "" {
		cfg.NoticeDuration = DefaultNoticeDuration
	}
	d, err := time.ParseDuration(cfg.NoticeDuration)
	if err != nil {
		return fmt.Errorf("invalid notice_duration %q: %w", cfg.NoticeDuration, err)
	}
	if d <= 0 {
		return fmt.Errorf("notice_duration must be positive, got %s", cfg.NoticeDuration)
	}
	cfg.Notice = d

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(strings.TrimSpace(cfg.LogFormat))
	return nil
}

func validBackend(name string) bool {
	for _, b := range backends {
		if b == name {
			return true
		}
	}
	return false
}

// defaultStorePath returns the unexpanded default location for backend.
func defaultStorePath(backend string) string {
	switch backend {
	case "file":
		return filepath.Join(DefaultDataDir, DefaultFileName)
	case "sqlite":
		return filepath.Join(DefaultDataDir, DefaultSQLiteName)
	}
	return ""
}

// TOML renders cfg as a config file.
func (c *Config) TOML() (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}
