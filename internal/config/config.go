// Package config loads sealtext settings from a TOML file and the environment.
//
// Precedence, highest first:
//   - Environment: SEALTEXT_STORE, SEALTEXT_NO_KEYRING, SEALTEXT_DEBUG
//   - File: $SEALTEXT_CONFIG, or <user config dir>/sealtext/config.toml
//   - Defaults
//
// A missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	DefaultStore = ".sealtext"

	EnvConfig    = "SEALTEXT_CONFIG"
	EnvStore     = "SEALTEXT_STORE"
	EnvNoKeyring = "SEALTEXT_NO_KEYRING"
	EnvDebug     = "SEALTEXT_DEBUG"
	EnvPassword  = "SEALTEXT_PASSWORD"
)

// Config holds user settings
type Config struct {
	Store   string `toml:"store"`
	Keyring bool   `toml:"keyring"`
	Debug   bool   `toml:"debug"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Store:   DefaultStore,
		Keyring: true,
	}
}

// Path returns the config file location
func Path() (string, error) {
	if p := os.Getenv(EnvConfig); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "sealtext", "config.toml"), nil
}

// Load reads the config file and applies environment overrides
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		// no home directory: defaults plus environment still work
		cfg := Default()
		return cfg, cfg.applyEnv()
	}
	return LoadFile(path)
}

// LoadFile reads settings from path and applies environment overrides
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if cfg.Store == "" {
		cfg.Store = DefaultStore
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvStore); v != "" {
		c.Store = v
	}

	if v := os.Getenv(EnvNoKeyring); v != "" {
		off, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvNoKeyring, err)
		}
		c.Keyring = !off
	}

	if v := os.Getenv(EnvDebug); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDebug, err)
		}
		c.Debug = on
	}

	return nil
}
