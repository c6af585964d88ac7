package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv reads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error. Existing variables are kept.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return godotenv.Load(path)
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("PTM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("PTM_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("PTM_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		set("log_timestamps")
	}
	if v := os.Getenv("PTM_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		set("log_caller")
	}
	if v := os.Getenv("PTM_LOG_DIR"); v != "" {
		cfg.LogDir = v
		set("log_dir")
	}
	if v := os.Getenv("PTM_JOURNAL"); v != "" {
		cfg.Journal = boolFromString(v)
		set("journal")
	}
	if v := os.Getenv("PTM_HOOK"); v != "" {
		cfg.HookCommand = v
		set("hook_command")
	}
	if v := os.Getenv("PTM_FORMAT"); v != "" {
		cfg.OutputFormat = v
		set("output_format")
	}
	if v := os.Getenv("PTM_FILTER"); v != "" {
		cfg.DefaultFilter = v
		set("default_filter")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
