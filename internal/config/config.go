// Package config defines Quill's configuration model: editor behavior settings
// plus the key binding table, with process-lifetime defaults and file loading.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"quill/internal/keymap"
)

// EditorConfig holds behavior settings for the editor core.
type EditorConfig struct {
	// DefaultLineEnding names the line ending for new documents:
	// "native", "lf" or "crlf".
	DefaultLineEnding string `yaml:"default-line-ending" mapstructure:"default-line-ending"`
	// InsertFinalNewline appends a trailing line ending when saving a
	// document that lacks one.
	InsertFinalNewline bool `yaml:"insert-final-newline" mapstructure:"insert-final-newline"`
}

// Config bundles the editor settings with the key binding table.
type Config struct {
	Editor EditorConfig  `yaml:"editor" mapstructure:"editor"`
	Keys   keymap.Keymap `yaml:"keys" mapstructure:"keys"`
}

// Default returns the compiled-in configuration. The result is a fresh copy;
// callers may mutate it freely.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			DefaultLineEnding:  "native",
			InsertFinalNewline: false,
		},
		Keys: keymap.Default(),
	}
}

// Load reads a YAML configuration file and layers it over the defaults. The
// Keys section of the file is treated as overrides and merged onto the
// compiled-in table, override wins.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	var loaded Config
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if loaded.Editor.DefaultLineEnding != "" {
		cfg.Editor.DefaultLineEnding = loaded.Editor.DefaultLineEnding
	}
	cfg.Editor.InsertFinalNewline = loaded.Editor.InsertFinalNewline
	cfg.Keys = keymap.Merge(keymap.Default(), loaded.Keys)

	return cfg, nil
}
