// Package config provides filesystem helpers for locating rqeeb's
// configuration and data files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading "~" or "~/" to the current user's home
// directory and returns an absolute path.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path is empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		if path == "~" {
			path = home
		} else {
			path = filepath.Join(home, path[2:])
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %q: %w", path, err)
	}
	return abs, nil
}

// DefaultDatabasePath returns the default location of the rqeeb database.
func DefaultDatabasePath() string {
	return "~/.local/share/rqeeb/rqeeb.db"
}
