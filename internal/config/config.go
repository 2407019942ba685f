package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/cheese/internal/constants"
)

// Config holds the tunables read from the YAML config file.
type Config struct {
	MaxBackups     int   `yaml:"max_backups"`
	MaxPhotoBytes  int   `yaml:"max_photo_bytes"`
	MaxImportBytes int64 `yaml:"max_import_bytes"`
	AutoBackup     bool  `yaml:"auto_backup"`
	// DataPath overrides the default storage location when --data is not given.
	DataPath string `yaml:"data_path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxBackups:     constants.MaxBackups,
		MaxPhotoBytes:  constants.DefaultMaxPhotoBytes,
		MaxImportBytes: constants.DefaultMaxImportBytes,
		AutoBackup:     true,
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values that would disable core limits.
func (c *Config) Validate() error {
	if c.MaxBackups < 1 {
		return fmt.Errorf("max_backups must be at least 1, got %d", c.MaxBackups)
	}
	if c.MaxPhotoBytes < 1 {
		return fmt.Errorf("max_photo_bytes must be positive, got %d", c.MaxPhotoBytes)
	}
	if c.MaxImportBytes < 1 {
		return fmt.Errorf("max_import_bytes must be positive, got %d", c.MaxImportBytes)
	}
	return nil
}

// Save writes the config as YAML, creating the parent directory.
func (c *Config) Save(path string) error {
	path, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
