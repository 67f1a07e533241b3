// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package config loads the driver configuration: defaults, overlaid with
// an optional YAML config file, overlaid with any command-line flags the
// user actually set.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/quickplug/quickplug/internal/xdg"
)

// FileName is the config file looked up in the XDG config directory when
// no explicit path is given.
const FileName = "config.yaml"

// Config is the driver configuration.
type Config struct {
	// AddonDirs are the directories searched for installed addons, in
	// precedence order.
	AddonDirs []string `koanf:"addon_dirs"`

	// ProfileDir is the base directory for per-addon profiles.
	ProfileDir string `koanf:"profile_dir"`

	// LogFormat selects the log output format: "text" or "json".
	LogFormat string `koanf:"log_format"`

	// MetricsAddr is the listen address for the metrics endpoint. Empty
	// disables it.
	MetricsAddr string `koanf:"metrics_addr"`
}

// Validate checks the configuration for values no subcommand can work
// with.
func (c Config) Validate() error {
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		return oops.With("log_format", c.LogFormat).
			Errorf("log format must be %q or %q", "text", "json")
	}
	if len(c.AddonDirs) == 0 {
		return oops.Errorf("at least one addon directory must be configured")
	}
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AddonDirs:  []string{xdg.AddonsDir()},
		ProfileDir: filepath.Join(xdg.DataDir(), "profiles"),
		LogFormat:  "text",
	}
}

// Load builds the effective configuration. path may be empty, in which
// case the default config file is used if it exists. flags may be nil;
// only flags the user changed override the file.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path == "" {
		candidate := filepath.Join(xdg.ConfigDir(), FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, oops.With("path", path).Wrapf(err, "loading config file")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return cfg, oops.Wrapf(err, "loading flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Wrapf(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
