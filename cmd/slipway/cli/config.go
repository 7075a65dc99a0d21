// Copyright 2026 The Slipway Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the operator's client configuration, loaded from a single
// optional YAML file. It tunes how slipway talks to controllers; it
// never stores credentials (those live in the profile store).
type Config struct {
	// RequestTimeout bounds each HTTP request to the controller.
	// Zero means no client-side timeout beyond the command context.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// CAFile is a path to a PEM bundle of additional CA certificates
	// trusted for controller TLS connections. Empty means the system
	// pool alone.
	CAFile string `yaml:"ca_file"`

	// InsecureSkipVerify disables TLS certificate verification.
	// For lab controllers with self-signed certificates only.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`

	// Color controls ANSI output: "auto" (default, on when stdout is
	// a terminal), "always", or "never".
	Color string `yaml:"color"`
}

// ConfigPath returns the configuration file location: the
// SLIPWAY_CONFIG environment variable when set, otherwise
// ~/.config/slipway/config.yaml.
func ConfigPath() string {
	if path := os.Getenv("SLIPWAY_CONFIG"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "slipway", "config.yaml")
}

// LoadConfig reads the configuration file at ConfigPath. A missing
// file is not an error: every field has a usable zero value, so the
// CLI works with no configuration at all.
func LoadConfig() (Config, error) {
	return loadConfigPath(ConfigPath())
}

func loadConfigPath(path string) (Config, error) {
	var config Config
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := config.validate(); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	return config, nil
}

func (c Config) validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode %q (want auto, always, or never)", c.Color)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request_timeout %s", c.RequestTimeout)
	}
	return nil
}

// HTTPClient builds the HTTP client used for controller connections,
// applying the configured timeout and TLS settings. Returns nil when
// nothing is configured, so callers fall through to the library
// defaults.
func (c Config) HTTPClient() (*http.Client, error) {
	var tlsConfig *tls.Config

	if c.CAFile != "" {
		pem, err := os.ReadFile(c.CAFile)
		if err != nil {
			return nil, fmt.Errorf("reading CA bundle: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", c.CAFile)
		}
		tlsConfig = &tls.Config{RootCAs: pool}
	}

	if c.InsecureSkipVerify {
		if tlsConfig == nil {
			tlsConfig = &tls.Config{}
		}
		tlsConfig.InsecureSkipVerify = true
	}

	if tlsConfig == nil && c.RequestTimeout == 0 {
		return nil, nil
	}

	client := &http.Client{Timeout: c.RequestTimeout}
	if tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig
		client.Transport = transport
	}
	return client, nil
}
