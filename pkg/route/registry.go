// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Registry maps normalized route paths to descriptors. It is safe for
// concurrent use: tables register during startup while the dispatcher
// reads during the cycle.
type Registry struct {
	routes map[string]*Descriptor
	mu     sync.RWMutex
}

// NewRegistry creates an empty route registry.
func NewRegistry() *Registry {
	return &Registry{
		routes: make(map[string]*Descriptor),
	}
}

// Register adds a descriptor to the registry, normalizing its path.
// Re-registering a path replaces the prior entry; last write wins and a
// warning is logged, so unintentional shadowing shows up in the host log
// instead of failing the process.
func (r *Registry) Register(d Descriptor) error {
	if d.Func == nil {
		return oops.With("path", d.Path).Errorf("descriptor for %q has no callback", d.Path)
	}
	d.Path = NormalizePath(d.Path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.routes[d.Path]; ok {
		slog.Warn("route conflict: overwriting existing route",
			"path", d.Path,
			"previous_source", existing.Source,
			"new_source", d.Source)
	}

	r.routes[d.Path] = &d
	return nil
}

// RegisterAll registers a descriptor table, stopping at the first error.
func (r *Registry) RegisterAll(table []Descriptor) error {
	for _, d := range table {
		if err := r.Register(d); err != nil {
			return err
		}
	}
	return nil
}

// Lookup retrieves the descriptor for a normalized path.
func (r *Registry) Lookup(path string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.routes[NormalizePath(path)]
	if !ok {
		return nil, ErrRouteNotFound(path)
	}
	return d, nil
}

// All returns all registered descriptors. The slice is a copy and safe
// to modify.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.routes))
	for _, d := range r.routes {
		out = append(out, d)
	}
	return out
}

// Match returns the descriptors whose paths match the given glob
// pattern, e.g. "videos/*".
func (r *Registry) Match(pattern string) ([]*Descriptor, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, oops.With("pattern", pattern).Wrapf(err, "invalid route pattern")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Descriptor
	for path, d := range r.routes {
		if g.Match(path) {
			out = append(out, d)
		}
	}
	return out, nil
}

// ComputePath derives the route path for a callback from its declaring
// scope and name. The computation is deterministic: the same inputs
// always yield the same path. A callback named "root" maps to the fixed
// entry-point path regardless of scope, so every plugin has exactly one
// entry point.
func ComputePath(scope, name string) string {
	name = strings.ToLower(name)
	if name == RootPath {
		return RootPath
	}

	scope = strings.Trim(scope, "_")
	scope = strings.ReplaceAll(scope, ".", "/")
	scope = strings.Trim(strings.ToLower(scope), "/")
	if scope == "" {
		return name
	}
	return scope + "/" + name
}

// NormalizePath lower-cases a selector path and strips surrounding
// slashes. The empty path is the entry point.
func NormalizePath(path string) string {
	path = strings.ToLower(strings.Trim(path, "/"))
	if path == "" {
		return RootPath
	}
	return path
}
