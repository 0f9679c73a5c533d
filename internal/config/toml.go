// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage StorageConfig `toml:"storage"`
	Review  ReviewConfig  `toml:"review"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig maps database settings.
type StorageConfig struct {
	Path *string `toml:"path"`
}

// ReviewConfig maps the default review filter.
type ReviewConfig struct {
	Subject    *string `toml:"subject"`
	Tag        *string `toml:"tag"`
	Type       *string `toml:"type"`
	Difficulty *int    `toml:"difficulty"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// Template is written by `mistakebook config` when no file exists yet.
const Template = `# mistakebook configuration

[storage]
# path = "~/.local/share/mistakebook/mistakebook.db"

[review]
# Default filter for review sessions. Command line flags take precedence.
# subject = "Math"
# tag = "algebra"
# type = "single_choice"   # single_choice, multiple_choice, fill_blank, true_false, free_response
# difficulty = 3

[log]
# level = "info"           # debug, info, warn, error
# file = "~/.local/state/mistakebook/mistakebook.log"
`

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EnsureConfig writes Template to path unless a file already exists.
// It reports whether a new file was created.
func EnsureConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(Template), 0o644); err != nil {
		return false, fmt.Errorf("failed to write config: %w", err)
	}
	return true, nil
}
