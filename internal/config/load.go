package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/ptm-go/internal/registry"
	"github.com/nibzard/ptm-go/internal/render"
)

// LoadWithSources loads configuration from every source in priority order
// and tracks the source of each value.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	cfg := &Config{}
	sources := make(map[string]ConfigSource)
	result := &ConfigWithSources{Config: cfg, Sources: sources}

	// 1. Set defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	if path := findUserConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
	}

	// 3. Try to load from project config file (overrides user config)
	if path := findProjectConfigFile(); path != "" {
		if err := loadConfigFile(cfg, path, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", path, err)
		}
		result.Files = append(result.Files, path)
	}

	// 4. Populate the environment from .env, then override from environment
	if err := loadDotEnv(DefaultDotEnvFile); err != nil {
		return nil, fmt.Errorf("loading %s: %w", DefaultDotEnvFile, err)
	}
	loadFromEnv(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return result, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
	cfg.LogDir = DefaultLogDir
	cfg.Journal = false
	cfg.HookCommand = ""
	cfg.OutputFormat = DefaultOutputFormat
	cfg.DefaultFilter = DefaultFilter
}

// loadConfigFile decodes TOML from path on top of cfg. Only keys present in
// the file are overwritten and, when sources is non-nil, attributed to source.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config keys: %v", undecoded)
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates the result.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.LogDir = expandPath(cfg.LogDir)

	if cfg.WorkDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.WorkDir = wd
	}

	return cfg.Validate()
}

// Validate checks values that would otherwise fail later at use time.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("output_format: %w", err)
	}
	if _, err := registry.ParseFilter(c.DefaultFilter); err != nil {
		return fmt.Errorf("default_filter: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("log_format: unknown format %q, must be one of: text, json, logfmt", c.LogFormat)
	}
	return nil
}

// Format returns the parsed output format.
func (c *Config) Format() render.Format {
	f, err := render.ParseFormat(c.OutputFormat)
	if err != nil {
		return render.FormatText
	}
	return f
}

// Filter returns the parsed default list filter.
func (c *Config) Filter() registry.Filter {
	f, err := registry.ParseFilter(c.DefaultFilter)
	if err != nil {
		return registry.FilterAll
	}
	return f
}

// Value returns the effective value of a field by its TOML name.
func (c *Config) Value(field string) string {
	switch field {
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	case "log_dir":
		return c.LogDir
	case "journal":
		return fmt.Sprint(c.Journal)
	case "hook_command":
		return c.HookCommand
	case "output_format":
		return c.OutputFormat
	case "default_filter":
		return c.DefaultFilter
	default:
		return ""
	}
}

// Fields returns the configurable field names in display order.
func Fields() []string {
	return configFields()
}
