// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package addon

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SettingsName is the settings file name, both for the defaults shipped
// in the addon's resources directory and for the user values persisted
// to the profile directory.
const SettingsName = "settings.yaml"

// Settings is one addon's configuration: defaults shipped with the addon
// overlaid with user values from the profile directory.
type Settings struct {
	defaults map[string]string
	values   map[string]string
	path     string
}

// LoadSettings reads an addon's settings. Defaults come from
// resources/settings.yaml in the addon directory, user values from
// settings.yaml in the profile directory. Both files are optional.
func LoadSettings(addonDir, profileDir string) (*Settings, error) {
	defaults, err := readSettingsFile(filepath.Join(addonDir, "resources", SettingsName))
	if err != nil {
		return nil, err
	}
	path := filepath.Join(profileDir, SettingsName)
	values, err := readSettingsFile(path)
	if err != nil {
		return nil, err
	}
	return &Settings{defaults: defaults, values: values, path: path}, nil
}

// Get returns the effective value for key: the user value if set, the
// shipped default otherwise, "" when neither exists.
func (s *Settings) Get(key string) string {
	if v, ok := s.values[key]; ok {
		return v
	}
	return s.defaults[key]
}

// Set stores a user value for key. Call Save to persist.
func (s *Settings) Set(key, value string) {
	s.values[key] = value
}

// All returns the merged effective settings.
func (s *Settings) All() map[string]string {
	out := make(map[string]string, len(s.defaults)+len(s.values))
	for k, v := range s.defaults {
		out[k] = v
	}
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Save persists the user values to the profile directory.
func (s *Settings) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating profile directory: %w", err)
	}
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

// readSettingsFile loads one YAML settings file. Missing files yield an
// empty map.
func readSettingsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	out := make(map[string]string)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	return out, nil
}
