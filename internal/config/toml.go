// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Grader  GraderConfig  `toml:"grader"`
	Library LibraryConfig `toml:"library"`
	Log     LogConfig     `toml:"log"`
}

// GraderConfig maps assessment settings.
type GraderConfig struct {
	Provider  *string `toml:"provider"`
	Model     *string `toml:"model"`
	MaxTokens *int    `toml:"max-tokens"`
}

// LibraryConfig maps vocabulary library settings.
type LibraryConfig struct {
	ExportDir       *string `toml:"export-dir"`
	DefaultCategory *string `toml:"default-category"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

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
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
