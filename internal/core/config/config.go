// Package config handles configuration loading and validation for pom.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Color modes accepted by the color setting.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the application configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	// LockTimeout bounds the wait for the store lock. Negative disables locking.
	LockTimeout time.Duration `yaml:"lock_timeout"`
	Color       string        `yaml:"color"`
	HomeDir     string        `yaml:"-"` // set by caller, not from config file
}

// StoreConfig locates the task store file. Dir is relative to the home
// directory unless absolute or prefixed with "~/".
type StoreConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Dir:  ".pomodoro",
			File: "data.json",
		},
		LockTimeout: 5 * time.Second,
		Color:       ColorAuto,
	}
}

// Load reads configuration from the given path and sets the home directory.
// If configPath is empty or doesn't exist, returns defaults with the provided homeDir.
func Load(configPath, homeDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.HomeDir = homeDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set homeDir since Unmarshal may have cleared it
			cfg.HomeDir = homeDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Store.Dir == "" {
		c.Store.Dir = defaults.Store.Dir
	}
	if c.Store.File == "" {
		c.Store.File = defaults.Store.File
	}
	if c.Color == "" {
		c.Color = defaults.Color
	}
}

// StoreDir resolves the store directory against the home directory.
func (c *Config) StoreDir() string {
	dir := c.Store.Dir
	switch {
	case dir == "~":
		return c.HomeDir
	case strings.HasPrefix(dir, "~/"):
		return filepath.Join(c.HomeDir, dir[2:])
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(c.HomeDir, dir)
	}
}

// StorePath returns the full path of the task store file.
func (c *Config) StorePath() string {
	return filepath.Join(c.StoreDir(), c.Store.File)
}
