package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# ptm configuration file
# Values can be overridden by .env, PTM_* environment variables, or CLI flags

# Console logging (written to stderr)
log_level = "info"        # debug, info, warn, error
log_format = "text"       # text, json, logfmt
log_timestamps = false
log_caller = false

# Session journal: one JSONL file per run recording every task change
journal = false
log_dir = "~/.ptm/logs"   # supports ~ expansion and %VAR% on Windows

# Hook command run after each add/complete/edit/remove.
# Invoked as: <hook> <op> <task-id>, with the task JSON on stdin.
# hook_command = "/path/to/hook.sh"

# Listings
output_format = "text"    # text, json, yaml
default_filter = "all"    # all, completed, incomplete
`
}
