package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks the configuration for structural errors. Field errors are
// collected and returned together as criterio.FieldErrors.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("home_dir", c.HomeDir, required),
		criterio.Run("store.dir", c.Store.Dir, required),
		criterio.Run("store.file", c.Store.File, fileName),
		criterio.Run("color", c.Color, colorMode),
	)
}

// ValidateDeep runs Validate and then checks the file system: the config
// file, when given, must be a regular file, and the store location must not
// be occupied by the wrong kind of entry.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("store.dir", c.StoreDir(), isDirectoryOrNotExist),
		criterio.Run("store.file", c.StorePath(), isFileOrNotExist),
	)
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("is required")
	}
	return nil
}

func fileName(name string) error {
	if err := required(name); err != nil {
		return err
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("%q must be a file name, not a path", name)
	}
	return nil
}

func colorMode(mode string) error {
	modes := []string{ColorAuto, ColorAlways, ColorNever}
	if !slices.Contains(modes, mode) {
		return fmt.Errorf("invalid color mode %q: must be one of %s", mode, strings.Join(modes, ", "))
	}
	return nil
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func isFileOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("exists but is a directory")
	}
	return nil
}
