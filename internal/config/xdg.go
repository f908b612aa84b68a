// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

// appDirName is the subdirectory used under each XDG base directory.
const appDirName = "typr"

// xdgDir resolves one XDG base directory: the env override when set,
// otherwise the fallback segments under the user's home. A missing home
// degrades to the current directory.
func xdgDir(envVar string, fallback ...string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// DefaultLanguageDir returns the default directory for language word lists.
func DefaultLanguageDir() string {
	return filepath.Join(XDGDataHome(), appDirName, "languages")
}

// DefaultLanguagePath builds the default word list path for a language.
func DefaultLanguagePath(lang string) string {
	return filepath.Join(DefaultLanguageDir(), lang+".txt")
}

// DefaultDBPath returns the default path for the SQLite database.
func DefaultDBPath() string {
	return filepath.Join(XDGDataHome(), appDirName, "typr.db")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDirName, "config.toml")
}
