package config

import (
	"flag"
)

// parseFlags defines and parses the global CLI flags. Only flags that were
// given on the command line override cfg, so values from files and the
// environment survive an absent flag.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("ptm", flag.ContinueOnError)
	}

	var (
		logLevel      = fs.String("log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
		logFormat     = fs.String("log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
		logTimestamps = fs.Bool("log-timestamps", cfg.LogTimestamps, "Include timestamps in log output")
		logCaller     = fs.Bool("log-caller", cfg.LogCaller, "Include caller location in log output")
		logDir        = fs.String("log-dir", cfg.LogDir, "Session journal directory")
		journal       = fs.Bool("journal", cfg.Journal, "Write a JSONL journal of task changes")
		hook          = fs.String("hook", cfg.HookCommand, "Hook command to run after each task change")
		format        = fs.String("format", cfg.OutputFormat, "Output format for listings (text|json|yaml)")
		filter        = fs.String("filter", cfg.DefaultFilter, "Default list filter (all|completed|incomplete)")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	flagToField := map[string]string{
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
		"log-dir":        "log_dir",
		"journal":        "journal",
		"hook":           "hook_command",
		"format":         "output_format",
		"filter":         "default_filter",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "log-timestamps":
			cfg.LogTimestamps = *logTimestamps
		case "log-caller":
			cfg.LogCaller = *logCaller
		case "log-dir":
			cfg.LogDir = *logDir
		case "journal":
			cfg.Journal = *journal
		case "hook":
			cfg.HookCommand = *hook
		case "format":
			cfg.OutputFormat = *format
		case "filter":
			cfg.DefaultFilter = *filter
		}
		if sources == nil {
			return
		}
		if field, ok := flagToField[f.Name]; ok {
			sources[field] = SourceFlag
		}
	})

	return nil
}
