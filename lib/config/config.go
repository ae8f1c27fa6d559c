// Copyright 2026 The Idmap Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the tool configuration. It carries defaults for the scan
// workflow so fleet-style invocations do not repeat the same paths on
// every command line; flags always win over config values.
type Config struct {
	// Scan configures the directory scan defaults.
	Scan ScanConfig `yaml:"scan"`

	// LogLevel is the minimum slog level ("debug", "info", "warn",
	// "error"). Default: info.
	LogLevel string `yaml:"log_level"`
}

// ScanConfig holds defaults for the scan command.
type ScanConfig struct {
	// TargetPath is the target container every discovered overlay is
	// matched against.
	TargetPath string `yaml:"target_path"`

	// OutputDir is where generated idmaps are written, one canonical
	// path per overlay.
	OutputDir string `yaml:"output_dir"`
}

// Default returns the default configuration. The defaults make every
// field well-formed before a file is loaded; the file itself is still
// required for Load.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Scan: ScanConfig{
			OutputDir: filepath.Join(homeDir, ".cache", "idmap"),
		},
		LogLevel: "info",
	}
}

// Load loads configuration from the IDMAP_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or search paths: if IDMAP_CONFIG is not set,
// this fails.
func Load() (*Config, error) {
	configPath := os.Getenv("IDMAP_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("IDMAP_CONFIG environment variable not set; " +
			"set it to the path of your idmap.yaml config file, or use --config flag")
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path. The file is
// the single source of truth: environment variables do not override
// its values. The only expansion performed is ${HOME} in path fields,
// for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return
	}
	expand := func(s string) string {
		return os.Expand(s, func(name string) string {
			if name == "HOME" {
				return homeDir
			}
			// Unknown variables are left intact so validation can
			// report them rather than silently emptying a path.
			return "${" + name + "}"
		})
	}
	c.Scan.TargetPath = expand(c.Scan.TargetPath)
	c.Scan.OutputDir = expand(c.Scan.OutputDir)
}

func (c *Config) validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q (want debug, info, warn, or error)", c.LogLevel)
	}
	return nil
}
