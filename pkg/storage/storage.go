// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package storage provides simple JSON-file-backed persistent containers
// for addon state, stored under the addon profile directory. Writes are
// atomic: the new content lands in a temp file first and replaces the
// target with a rename.
package storage

import (
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	"github.com/samber/oops"
)

// storeFileMode is the permission set for freshly created store files.
const storeFileMode = 0o600

// Dict is a persistent string-keyed mapping.
type Dict struct {
	path string

	// Data is the live mapping. Mutate it freely between Flush calls.
	Data map[string]any
}

// OpenDict loads a persistent mapping from path. A missing file yields
// an empty mapping; the file is created on the first Flush.
func OpenDict(path string) (*Dict, error) {
	d := &Dict{path: path, Data: make(map[string]any)}

	raw, err := load(path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return d, nil
	}

	data, ok := raw.(map[string]any)
	if !ok {
		return nil, oops.With("path", path).Errorf("store file does not hold a mapping")
	}
	d.Data = data
	return d, nil
}

// Get returns the value for key, or nil when absent.
func (d *Dict) Get(key string) any {
	return d.Data[key]
}

// Set stores a value under key.
func (d *Dict) Set(key string, value any) {
	d.Data[key] = value
}

// Delete removes key.
func (d *Dict) Delete(key string) {
	delete(d.Data, key)
}

// Flush writes the current mapping to disk.
func (d *Dict) Flush() error {
	return write(d.path, d.Data)
}

// Close flushes and releases the store.
func (d *Dict) Close() error {
	return d.Flush()
}

// List is a persistent ordered sequence.
type List struct {
	path string

	// Data is the live sequence. Mutate it freely between Flush calls.
	Data []any
}

// OpenList loads a persistent sequence from path. A missing file yields
// an empty sequence; the file is created on the first Flush.
func OpenList(path string) (*List, error) {
	l := &List{path: path}

	raw, err := load(path)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return l, nil
	}

	data, ok := raw.([]any)
	if !ok {
		return nil, oops.With("path", path).Errorf("store file does not hold a sequence")
	}
	l.Data = data
	return l, nil
}

// Append adds values to the end of the sequence.
func (l *List) Append(values ...any) {
	l.Data = append(l.Data, values...)
}

// Flush writes the current sequence to disk.
func (l *List) Flush() error {
	if l.Data == nil {
		return write(l.path, []any{})
	}
	return write(l.path, l.Data)
}

// Close flushes and releases the store.
func (l *List) Close() error {
	return l.Flush()
}

// load reads and parses a store file. Returns nil for a missing file.
func load(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "reading store file")
	}
	parsed, err := oj.Parse(raw)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "parsing store file")
	}
	return parsed, nil
}

// write serializes v and atomically replaces path with the new content.
func write(path string, v any) error {
	data, err := oj.Marshal(v)
	if err != nil {
		return oops.With("path", path).Wrapf(err, "encoding store file")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return oops.With("path", path).Wrapf(err, "creating store directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return oops.With("path", path).Wrapf(err, "creating temp store file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return oops.With("path", path).Wrapf(err, "writing temp store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return oops.With("path", path).Wrapf(err, "closing temp store file")
	}
	if err := os.Chmod(tmpName, storeFileMode); err != nil {
		os.Remove(tmpName)
		return oops.With("path", path).Wrapf(err, "setting store file mode")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return oops.With("path", path).Wrapf(err, "replacing store file")
	}
	return nil
}
