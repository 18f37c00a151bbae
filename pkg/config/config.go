// Package config loads jotter's YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
)

// Config is the full configuration file.
type Config struct {
	File    string        `yaml:"-"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Editor  EditorConfig  `yaml:"editor"`
	Export  ExportConfig  `yaml:"export"`
}

// StorageConfig selects where the persisted state lives.
type StorageConfig struct {
	// Driver is "sqlite" or "file".
	Driver string `yaml:"driver" default:"sqlite"`
	// Path is the database file (sqlite) or directory (file). Empty means
	// the per-OS default.
	Path string `yaml:"path"`
	WAL  bool   `yaml:"wal"`
	Sync string `yaml:"sync" default:"FULL"`
	// Key is the storage slot holding the state envelope.
	Key string `yaml:"key" default:"note-app-storage"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is parsed with zapcore.ParseLevel.
	Level string `yaml:"level" default:"warn"`
	// Production switches from console to JSON output.
	Production bool `yaml:"production"`
	// File receives log output; empty means stderr.
	File string `yaml:"file"`
}

// EditorConfig configures the terminal editor.
type EditorConfig struct {
	// Debounce is the idle period before content edits are saved.
	Debounce time.Duration `yaml:"debounce" default:"1s"`
	// Watch reloads the editor when another process changes the state.
	Watch *bool `yaml:"watch" default:"true"`
}

// WatchEnabled reports whether external changes should be watched.
func (e EditorConfig) WatchEnabled() bool {
	return e.Watch == nil || *e.Watch
}

// ExportConfig configures export and download output.
type ExportConfig struct {
	Dir string `yaml:"dir" default:"."`
}

// Default returns a Config holding only default values.
func Default() *Config {
	c := new(Config)
	if err := defaults.Set(c); err != nil {
		// Only reachable if a default tag above is malformed.
		panic(fmt.Sprintf("invalid config defaults: %v", err))
	}
	return c
}

// Load reads the config file at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	realpath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path '%s': %w", path, err)
	}
	c.File = realpath

	data, err := os.ReadFile(realpath)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", realpath, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", realpath, err)
	}

	// Fill fields present in the file but left empty.
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", realpath, err)
	}
	return c, nil
}

// Validate checks values the rest of the program relies on.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unknown storage driver '%s' (want %s or %s)", c.Storage.Driver, DriverSQLite, DriverFile)
	}
	if c.Editor.Debounce < 0 {
		return fmt.Errorf("editor.debounce must not be negative")
	}
	return nil
}

// Save writes c to its File as YAML.
func (c *Config) Save() error {
	if c.File == "" {
		return fmt.Errorf("config has no file path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.File), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(c.File, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file '%s': %w", c.File, err)
	}
	return nil
}
