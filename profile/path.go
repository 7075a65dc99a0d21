// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package profile

import (
	"os"
	"path/filepath"
)

// DefaultPath returns the path to the profile store file. Checks the
// SLIPWAY_PROFILES_FILE environment variable first, then falls back
// to $XDG_CONFIG_HOME/slipway/profiles.cbor, then
// ~/.config/slipway/profiles.cbor.
func DefaultPath() string {
	if envPath := os.Getenv("SLIPWAY_PROFILES_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "slipway-profiles.cbor")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "slipway", "profiles.cbor")
}
