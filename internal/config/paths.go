package config

import (
	"os"
	"path/filepath"
)

// AppName names the keyring service and the config directory.
const AppName = "formkit"

// Dir returns the per-user configuration directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", AppName)
	}
	return "." + AppName
}

// DefaultSettingsPath is where LoadSettings looks when no path is given.
func DefaultSettingsPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func keyringDir() string {
	return filepath.Join(Dir(), "keyring")
}
