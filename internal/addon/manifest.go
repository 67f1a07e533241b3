// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package addon provides addon discovery and metadata: manifest parsing,
// dependency resolution, localized strings and per-addon settings.
package addon

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file expected in every addon directory.
const ManifestName = "addon.yaml"

// maxNameLength is the maximum allowed length for addon display names.
const maxNameLength = 64

// idPattern validates addon identifiers: lowercase dot-separated
// segments, at least two, like "plugin.video.demo".
var idPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(\.[a-z][a-z0-9-]*)+$`)

// Manifest represents an addon.yaml file.
type Manifest struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Version  string            `yaml:"version"`
	Provider string            `yaml:"provider,omitempty"`
	Entry    string            `yaml:"entry,omitempty"`
	Provides []string          `yaml:"provides,omitempty"`
	Requires []Dependency      `yaml:"requires,omitempty"`
	Assets   map[string]string `yaml:"assets,omitempty"`
}

// Dependency is one entry of the requires list. Version is the minimum
// acceptable version of the dependency.
type Dependency struct {
	Addon    string `yaml:"addon"`
	Version  string `yaml:"version,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// ParseManifest parses and validates an addon.yaml file.
func ParseManifest(data []byte) (*Manifest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("manifest data is empty")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// IsPlugin reports whether the addon is a runnable plugin source, as
// opposed to a pure library addon.
func (m *Manifest) IsPlugin() bool {
	return len(m.ID) > 7 && m.ID[:7] == "plugin."
}

// SemVersion returns the parsed manifest version.
func (m *Manifest) SemVersion() (*semver.Version, error) {
	return semver.NewVersion(m.Version)
}

// Validate checks manifest constraints.
func (m *Manifest) Validate() error {
	if m.ID == "" || !idPattern.MatchString(m.ID) {
		return fmt.Errorf("id %q must be lowercase dot-separated segments like \"plugin.video.demo\"", m.ID)
	}

	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(m.Name) > maxNameLength {
		return fmt.Errorf("name must be %d characters or less, got %d", maxNameLength, len(m.Name))
	}

	if m.Version == "" {
		return fmt.Errorf("version is required")
	}
	if _, err := semver.NewVersion(m.Version); err != nil {
		return fmt.Errorf("version %q is not a semantic version: %w", m.Version, err)
	}

	if m.IsPlugin() && m.Entry == "" {
		return fmt.Errorf("entry is required for plugin addons")
	}

	for i, dep := range m.Requires {
		if dep.Addon == "" || !idPattern.MatchString(dep.Addon) {
			return fmt.Errorf("requires[%d]: addon id %q is invalid", i, dep.Addon)
		}
		if dep.Addon == m.ID {
			return fmt.Errorf("requires[%d]: addon cannot depend on itself", i)
		}
		if dep.Version != "" {
			if _, err := semver.NewVersion(dep.Version); err != nil {
				return fmt.Errorf("requires[%d]: version %q is not a semantic version: %w", i, dep.Version, err)
			}
		}
	}

	return nil
}
