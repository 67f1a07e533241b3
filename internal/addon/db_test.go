// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package addon_test

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplug/quickplug/internal/addon"
)

// writeAddon lays out one addon directory with the given manifest.
func writeAddon(t *testing.T, root, dirName, manifest string) {
	t.Helper()
	dir := filepath.Join(root, dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, addon.ManifestName), []byte(manifest), 0o644))
}

func pluginManifest(id, version string, requires string) string {
	m := fmt.Sprintf("id: %s\nname: Test Addon\nversion: %s\nentry: bin/run\n", id, version)
	if requires != "" {
		m += "requires:\n" + requires
	}
	return m
}

func moduleManifest(id, version string) string {
	return fmt.Sprintf("id: %s\nname: Test Module\nversion: %s\n", id, version)
}

func loadDB(t *testing.T, dirs ...string) *addon.DB {
	t.Helper()
	db, err := addon.Load(slog.New(slog.DiscardHandler), dirs...)
	require.NoError(t, err)
	return db
}

func TestLoad_FindsAddons(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "plugin.video.demo", pluginManifest("plugin.video.demo", "1.0.0", ""))
	writeAddon(t, root, "script.module.helper", moduleManifest("script.module.helper", "2.0.0"))

	db := loadDB(t, root)

	all := db.All()
	require.Len(t, all, 2)
	assert.Equal(t, "plugin.video.demo", all[0].Manifest.ID)
	assert.Equal(t, "script.module.helper", all[1].Manifest.ID)

	a, ok := db.Get("plugin.video.demo")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(a.Dir, "bin/run"), a.EntryPath())
	assert.Equal(t, "plugin://plugin.video.demo/", a.BaseURL())
}

func TestLoad_SkipsInvalidManifests(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "good", pluginManifest("plugin.video.good", "1.0.0", ""))
	writeAddon(t, root, "broken", "id: NOT VALID\n")

	db := loadDB(t, root)
	assert.Len(t, db.All(), 1)
}

func TestLoad_MissingDirectoryTolerated(t *testing.T) {
	db := loadDB(t, filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Empty(t, db.All())
}

func TestLoad_EarlierDirectoryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	writeAddon(t, first, "demo", pluginManifest("plugin.video.demo", "1.0.0", ""))
	writeAddon(t, second, "demo", pluginManifest("plugin.video.demo", "9.9.9", ""))

	db := loadDB(t, first, second)

	a, ok := db.Get("plugin.video.demo")
	require.True(t, ok)
	assert.Equal(t, "1.0.0", a.Manifest.Version)
}

func TestDB_Match(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "a", pluginManifest("plugin.video.demo", "1.0.0", ""))
	writeAddon(t, root, "b", pluginManifest("plugin.audio.demo", "1.0.0", ""))
	writeAddon(t, root, "c", moduleManifest("script.module.helper", "1.0.0"))

	db := loadDB(t, root)

	matched, err := db.Match("plugin.*")
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "plugin.audio.demo", matched[0].Manifest.ID)

	_, err = db.Match("plugin.[")
	require.Error(t, err)
}

func TestDB_ResolveClosure(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "demo", pluginManifest("plugin.video.demo", "1.0.0",
		"  - addon: script.module.helper\n    version: 1.5.0\n"))
	writeAddon(t, root, "helper", moduleManifest("script.module.helper", "2.0.0"))

	db := loadDB(t, root)

	closure, err := db.Resolve("plugin.video.demo")
	require.NoError(t, err)
	require.Len(t, closure, 2)
	assert.Equal(t, "plugin.video.demo", closure[0].Manifest.ID)
	assert.Equal(t, "script.module.helper", closure[1].Manifest.ID)
}

func TestDB_ResolveTransitive(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "demo", pluginManifest("plugin.video.demo", "1.0.0",
		"  - addon: script.module.a\n"))
	writeAddon(t, root, "a", moduleManifest("script.module.a", "1.0.0")+
		"requires:\n  - addon: script.module.b\n")
	writeAddon(t, root, "b", moduleManifest("script.module.b", "1.0.0"))

	db := loadDB(t, root)

	closure, err := db.Resolve("plugin.video.demo")
	require.NoError(t, err)
	assert.Len(t, closure, 3)
}

func TestDB_ResolveMissingRequired(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "demo", pluginManifest("plugin.video.demo", "1.0.0",
		"  - addon: script.module.missing\n"))

	db := loadDB(t, root)

	_, err := db.Resolve("plugin.video.demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script.module.missing")
}

func TestDB_ResolveMissingOptionalTolerated(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "demo", pluginManifest("plugin.video.demo", "1.0.0",
		"  - addon: script.module.missing\n    optional: true\n"))

	db := loadDB(t, root)

	closure, err := db.Resolve("plugin.video.demo")
	require.NoError(t, err)
	assert.Len(t, closure, 1)
}

func TestDB_ResolveVersionTooOld(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "demo", pluginManifest("plugin.video.demo", "1.0.0",
		"  - addon: script.module.helper\n    version: 3.0.0\n"))
	writeAddon(t, root, "helper", moduleManifest("script.module.helper", "2.0.0"))

	db := loadDB(t, root)

	_, err := db.Resolve("plugin.video.demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ">= 3.0.0")
}

func TestDB_ResolveCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeAddon(t, root, "a", moduleManifest("script.module.a", "1.0.0")+
		"requires:\n  - addon: script.module.b\n")
	writeAddon(t, root, "b", moduleManifest("script.module.b", "1.0.0")+
		"requires:\n  - addon: script.module.a\n")

	db := loadDB(t, root)

	closure, err := db.Resolve("script.module.a")
	require.NoError(t, err)
	assert.Len(t, closure, 2)
}

func TestDB_ResolveUnknownAddon(t *testing.T) {
	db := loadDB(t, t.TempDir())
	_, err := db.Resolve("plugin.video.nowhere")
	require.Error(t, err)
}
