// ABOUTME: XDG-based data and config directory resolution for the starpr server.
// ABOUTME: Checks XDG_DATA_HOME / XDG_CONFIG_HOME, falls back to ~/.local/share/starpr and ~/.config/starpr.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "starpr"

// defaultDataDir returns the directory holding the persisted edits store.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/starpr.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", appName), nil
}

// defaultConfigDir returns the directory searched for editor.yaml.
// It checks XDG_CONFIG_HOME first, then falls back to ~/.config/starpr.
func defaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", appName), nil
}

// resolveDataDir returns the data directory to use, preferring an explicit
// override and falling back to the XDG-based default.
func resolveDataDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return defaultDataDir()
}

// resolveConfigFile returns the editor config path: the explicit override, or
// editor.yaml in the config dir when it exists, or "" for built-in defaults.
func resolveConfigFile(override string) string {
	if override != "" {
		return override
	}
	dir, err := defaultConfigDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(dir, "editor.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
