// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// DefaultSettingsFile is the settings path used when neither the CLI nor the
// config file names one. Relative to the current working directory.
const DefaultSettingsFile = "settings.json"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "pickr", "config.toml")
}
