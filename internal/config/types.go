package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, in load order.
	Files []string
}

// Default values.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultLogDir        = "~/.ptm/logs"
	DefaultOutputFormat  = "text"
	DefaultFilter        = "all"
	DefaultDotEnvFile    = ".env"
	configFileName       = "ptm.toml"
	hiddenConfigFileName = ".ptm.toml"
)

// Config holds the full configuration for ptm.
type Config struct {
	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Session journal
	LogDir  string `toml:"log_dir"`
	Journal bool   `toml:"journal"`

	// Hook command run after each committed change
	HookCommand string `toml:"hook_command"`

	// Presentation
	OutputFormat  string `toml:"output_format"`
	DefaultFilter string `toml:"default_filter"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"log_dir",
		"journal",
		"hook_command",
		"output_format",
		"default_filter",
	}
}
