// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package driver

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quickplug/quickplug/internal/addon"
	"github.com/quickplug/quickplug/pkg/host"
)

// writeTestAddon lays out a minimal installed addon and returns a DB
// holding it.
func writeTestAddon(t *testing.T, manifest string, files map[string]string) *addon.DB {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "addon")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, addon.ManifestName), []byte(manifest), 0o644))
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	db, err := addon.Load(slog.New(slog.DiscardHandler), root)
	require.NoError(t, err)
	return db
}

const demoManifest = `
id: plugin.video.demo
name: Demo
version: 1.0.0
entry: bin/demo
`

func TestResolveTarget_AddonID(t *testing.T) {
	db := writeTestAddon(t, demoManifest, nil)
	d := New(db, WithLogger(slog.New(slog.DiscardHandler)))

	got, err := d.resolveTarget("plugin.video.demo")
	require.NoError(t, err)
	assert.Equal(t, "plugin://plugin.video.demo/", got)
}

func TestResolveTarget_FullURL(t *testing.T) {
	db := writeTestAddon(t, demoManifest, nil)
	d := New(db)

	got, err := d.resolveTarget("plugin://plugin.video.demo/videos/recent")
	require.NoError(t, err)
	assert.Equal(t, "plugin://plugin.video.demo/videos/recent", got)
}

func TestResolveTarget_UnknownAddon(t *testing.T) {
	db := writeTestAddon(t, demoManifest, nil)
	d := New(db)

	_, err := d.resolveTarget("plugin.video.nowhere")
	require.Error(t, err)
}

func TestResolveTarget_MissingDependency(t *testing.T) {
	db := writeTestAddon(t, demoManifest+
		"requires:\n  - addon: script.module.missing\n", nil)
	d := New(db)

	_, err := d.resolveTarget("plugin.video.demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script.module.missing")
}

func TestChildEnv(t *testing.T) {
	db := writeTestAddon(t, demoManifest, map[string]string{
		"resources/settings.yaml": "quality: 720p\n",
		"resources/strings.po":    "msgctxt \"#30001\"\nmsgid \"Search\"\nmsgstr \"\"\n",
	})
	a, ok := db.Get("plugin.video.demo")
	require.True(t, ok)

	profileRoot := t.TempDir()
	d := New(db, WithProfileRoot(profileRoot))

	env, err := d.childEnv(a)
	require.NoError(t, err)

	byKey := make(map[string]string)
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok {
			byKey[k] = v
		}
	}
	assert.Equal(t, "1", byKey[host.EnvIPC])
	assert.Equal(t, "plugin.video.demo", byKey[host.EnvAddonID])
	assert.Contains(t, byKey[host.EnvSettings], `"quality":"720p"`)
	assert.Contains(t, byKey[host.EnvStrings], `"30001":"Search"`)
	assert.Equal(t, profileRoot+"/plugin.video.demo", byKey[host.EnvProfile])
}

func TestChildEnv_RoundTripsThroughPipeHost(t *testing.T) {
	db := writeTestAddon(t, demoManifest, map[string]string{
		"resources/settings.yaml": "region: eu\n",
	})
	a, ok := db.Get("plugin.video.demo")
	require.True(t, ok)

	d := New(db, WithProfileRoot(t.TempDir()))
	env, err := d.childEnv(a)
	require.NoError(t, err)

	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "QUICKPLUG_") {
			t.Setenv(k, v)
		}
	}

	ph, err := host.PipeHostFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "eu", ph.Setting("region"))
}
