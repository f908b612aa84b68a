// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Test TestConfig `toml:"test"`
}

// TestConfig maps test-related settings. Nil fields were not set in the file.
type TestConfig struct {
	Language     *string `toml:"language"`
	Mode         *string `toml:"mode"`
	Time         *int    `toml:"time"`
	Words        *int    `toml:"words"`
	Quote        *string `toml:"quote"`
	Punctuation  *bool   `toml:"punctuation"`
	Numbers      *bool   `toml:"numbers"`
	Symbols      *bool   `toml:"symbols"`
	VisibleLines *int    `toml:"visible-lines"`
	SaveResults  *bool   `toml:"save-results"`
}

// LoadConfig reads the TOML config at path. A missing file yields the zero
// config so first runs work without one.
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	if path == "" {
		return cfg, fmt.Errorf("no config path given")
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	return cfg, nil
}
