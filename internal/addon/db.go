// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package addon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
)

// Installed is one addon found on disk.
type Installed struct {
	Manifest *Manifest

	// Dir is the addon's source directory, holding the manifest, entry
	// binary and resources.
	Dir string
}

// EntryPath returns the absolute path of the addon's entry binary.
func (a *Installed) EntryPath() string {
	return filepath.Join(a.Dir, a.Manifest.Entry)
}

// BaseURL returns the addon's root plugin URL.
func (a *Installed) BaseURL() string {
	return "plugin://" + a.Manifest.ID + "/"
}

// DB is the set of installed addons, indexed by id.
type DB struct {
	addons map[string]*Installed
}

// Load scans the given directories for addons: every immediate
// subdirectory holding an addon.yaml is a candidate. Directories earlier
// in the list take precedence when the same id appears twice. Invalid
// manifests are logged and skipped so one broken addon cannot hide the
// rest.
func Load(logger *slog.Logger, dirs ...string) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db := &DB{addons: make(map[string]*Installed)}

	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading addon directory %s: %w", dir, err)
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			addonDir := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(filepath.Join(addonDir, ManifestName))
			if os.IsNotExist(err) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("reading manifest in %s: %w", addonDir, err)
			}

			m, err := ParseManifest(data)
			if err != nil {
				logger.Warn("skipping addon with invalid manifest",
					"dir", addonDir,
					"error", err)
				continue
			}
			if _, exists := db.addons[m.ID]; exists {
				logger.Warn("skipping shadowed addon",
					"id", m.ID,
					"dir", addonDir)
				continue
			}
			db.addons[m.ID] = &Installed{Manifest: m, Dir: addonDir}
		}
	}

	return db, nil
}

// Get returns the installed addon with the given id.
func (db *DB) Get(id string) (*Installed, bool) {
	a, ok := db.addons[id]
	return a, ok
}

// All returns every installed addon, sorted by id.
func (db *DB) All() []*Installed {
	out := make([]*Installed, 0, len(db.addons))
	for _, a := range db.addons {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Manifest.ID < out[j].Manifest.ID
	})
	return out
}

// Match returns the installed addons whose id matches the glob pattern,
// sorted by id.
func (db *DB) Match(pattern string) ([]*Installed, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	var out []*Installed
	for _, a := range db.All() {
		if g.Match(a.Manifest.ID) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Resolve returns the dependency closure of an addon: the addon itself
// first, then every transitively required addon. A missing or too-old
// required dependency is an error; missing optional dependencies are
// tolerated.
func (db *DB) Resolve(id string) ([]*Installed, error) {
	root, ok := db.addons[id]
	if !ok {
		return nil, fmt.Errorf("addon %q is not installed", id)
	}

	var closure []*Installed
	visited := make(map[string]bool)

	var walk func(a *Installed) error
	walk = func(a *Installed) error {
		if visited[a.Manifest.ID] {
			return nil
		}
		visited[a.Manifest.ID] = true
		closure = append(closure, a)

		for _, dep := range a.Manifest.Requires {
			installed, ok := db.addons[dep.Addon]
			if !ok {
				if dep.Optional {
					continue
				}
				return fmt.Errorf("addon %q requires %q which is not installed",
					a.Manifest.ID, dep.Addon)
			}
			if dep.Version != "" {
				if err := checkMinVersion(installed, dep); err != nil {
					return fmt.Errorf("addon %q: %w", a.Manifest.ID, err)
				}
			}
			if err := walk(installed); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(root); err != nil {
		return nil, err
	}
	return closure, nil
}

// checkMinVersion verifies an installed dependency satisfies the minimum
// version of a requires entry.
func checkMinVersion(installed *Installed, dep Dependency) error {
	have, err := installed.Manifest.SemVersion()
	if err != nil {
		return fmt.Errorf("dependency %q has unparseable version %q",
			dep.Addon, installed.Manifest.Version)
	}
	want, err := semver.NewVersion(dep.Version)
	if err != nil {
		return fmt.Errorf("requires entry for %q has unparseable version %q",
			dep.Addon, dep.Version)
	}
	if have.LessThan(want) {
		return fmt.Errorf("requires %q >= %s but %s is installed",
			dep.Addon, want, have)
	}
	return nil
}
