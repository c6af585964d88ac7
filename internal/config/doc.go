// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.ptm/ptm.toml or OS-specific config directory)
// 3. Project config file (ptm.toml or .ptm.toml in the working directory)
// 4. A .env file in the working directory
// 5. Environment variables (PTM_*)
// 6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
// Variables read from .env never replace variables already present in the
// process environment.
//
// User-level config locations:
// - ~/.ptm/ptm.toml (preferred)
// - Windows: %APPDATA%\ptm\ptm.toml
// - macOS: ~/Library/Application Support/ptm/ptm.toml
// - Linux/BSD: $XDG_CONFIG_HOME/ptm/ptm.toml or ~/.config/ptm/ptm.toml
//
// Project-level config locations (overrides user config):
// - ./ptm.toml (preferred)
// - ./.ptm.toml
package config
