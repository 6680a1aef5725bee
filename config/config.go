// Package config handles TOML configuration for the rsxfrag CLI.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the CLI configuration.
type Config struct {
	// Translation settings
	Translate struct {
		ControlWord          uint32 `toml:"control_word"`
		SurfaceUnimplemented bool   `toml:"surface_unimplemented"`
		OutputDir            string `toml:"output_dir"`
	} `toml:"translate"`

	// Batch settings
	Batch struct {
		Workers int `toml:"workers"`
	} `toml:"batch"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	// Bit 6 selects R0 as the color output, bit 10 marks the program
	// active; the common case for full-precision shaders.
	cfg.Translate.ControlWord = 0x440
	cfg.Translate.SurfaceUnimplemented = false
	cfg.Translate.OutputDir = "."

	cfg.Batch.Workers = 0 // one per CPU

	return cfg
}

// Load reads a configuration file, applying defaults for missing fields.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the configuration to a file, creating parent directories as
// needed.
func Save(cfg *Config, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
