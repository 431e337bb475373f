// Package config loads rowgit's TOML configuration file and applies
// environment-variable overrides, the common file-then-env pattern.
package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is rowgit's full runtime configuration.
type Config struct {
	// DBPath is the bbolt file the Repository opens.
	DBPath string `toml:"db_path"`
	// Author is a committer tag loaded from the file; commits carry no
	// author field and no command reads this value.
	Author string `toml:"author"`
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `toml:"log_level"`
	// LogFormat is "console" or "json".
	LogFormat string `toml:"log_format"`
}

// Default returns the built-in configuration used when no file is present.
func Default() Config {
	return Config{
		DBPath:    "rowgit.db",
		Author:    "unknown",
		LogLevel:  "info",
		LogFormat: "console",
	}
}

// Load reads path (TOML), falling back to Default() fields for anything the
// file omits, then applies ROWGIT_DB_PATH and ROWGIT_LOG_LEVEL environment
// overrides on top. A missing file is not an error: Load simply returns the
// defaults (plus env overrides).
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return Config{}, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROWGIT_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ROWGIT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
