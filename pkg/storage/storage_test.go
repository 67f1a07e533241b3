// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDict_MissingFileIsEmpty(t *testing.T) {
	d, err := OpenDict(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Empty(t, d.Data)
	assert.Nil(t, d.Get("anything"))
}

func TestDict_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	d, err := OpenDict(path)
	require.NoError(t, err)
	d.Set("watched", []any{"a", "b"})
	d.Set("count", int64(3))
	d.Set("enabled", true)
	require.NoError(t, d.Close())

	reopened, err := OpenDict(path)
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b"}, reopened.Get("watched"))
	assert.Equal(t, int64(3), reopened.Get("count"))
	assert.Equal(t, true, reopened.Get("enabled"))
}

func TestDict_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	d, err := OpenDict(path)
	require.NoError(t, err)
	d.Set("key", "value")
	d.Delete("key")
	require.NoError(t, d.Flush())

	reopened, err := OpenDict(path)
	require.NoError(t, err)
	assert.Nil(t, reopened.Get("key"))
}

func TestDict_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile", "nested", "state.json")

	d, err := OpenDict(path)
	require.NoError(t, err)
	d.Set("k", "v")
	require.NoError(t, d.Flush())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestDict_RejectsWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`[1,2,3]`), 0o600))

	_, err := OpenDict(path)
	require.Error(t, err)
}

func TestDict_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o600))

	_, err := OpenDict(path)
	require.Error(t, err)
}

func TestDict_FlushLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")

	d, err := OpenDict(path)
	require.NoError(t, err)
	d.Set("k", "v")
	require.NoError(t, d.Flush())
	require.NoError(t, d.Flush())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "state.json", entries[0].Name())
}

func TestList_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	l, err := OpenList(path)
	require.NoError(t, err)
	assert.Empty(t, l.Data)

	l.Append("first", "second")
	l.Append(int64(3))
	require.NoError(t, l.Close())

	reopened, err := OpenList(path)
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second", int64(3)}, reopened.Data)
}

func TestList_EmptyFlushWritesEmptySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	l, err := OpenList(path)
	require.NoError(t, err)
	require.NoError(t, l.Flush())

	reopened, err := OpenList(path)
	require.NoError(t, err)
	assert.Empty(t, reopened.Data)
}

func TestList_RejectsWrongShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	_, err := OpenList(path)
	require.Error(t, err)
}
