// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package xdg provides XDG Base Directory paths for quickplug.
package xdg

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "quickplug"

// ConfigDir returns the XDG config directory for quickplug.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// DataDir returns the XDG data directory for quickplug.
// Checks XDG_DATA_HOME first, falls back to ~/.local/share.
func DataDir() string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, appName)
}

// AddonsDir returns the default directory searched for installed addons.
func AddonsDir() string {
	return filepath.Join(DataDir(), "addons")
}

// ProfileDir returns the writable profile directory for one addon, used
// for settings and persistent storage.
func ProfileDir(addonID string) string {
	return filepath.Join(DataDir(), "profiles", addonID)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
// Directories are created with 0700 permissions.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}
