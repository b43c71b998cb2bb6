package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/illarion/sealtext/internal/config"
)

// ConfigShow prints the config file location and effective settings
func ConfigShow() error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	state := "not found, using defaults"
	if _, err := os.Stat(path); err == nil {
		state = "loaded"
	}

	fmt.Fprintf(stdout, "Config:  %s (%s)\n", path, state)
	fmt.Fprintf(stdout, "Store:   %s\n", cfg.Store)
	fmt.Fprintf(stdout, "Keyring: %t\n", cfg.Keyring)
	fmt.Fprintf(stdout, "Debug:   %t\n", cfg.Debug)
	return nil
}

// ConfigInit writes the effective settings to the config file.
// An existing file is left untouched.
func ConfigInit() error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists: %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	log.Debugf("wrote config to %s", path)

	success("Wrote %s", path)
	return nil
}
