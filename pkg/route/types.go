// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package route provides the route registry, dispatcher and session
// context for media-center plugins. Plugins declare descriptor tables
// binding URL paths to callbacks; the dispatcher translates each host
// request into a callback invocation and hands the validated result to
// the rendering collaborator.
package route

import (
	"github.com/quickplug/quickplug/pkg/params"
)

// Kind classifies a registered callback and controls how its return
// value is post-processed.
type Kind string

// Handler kinds.
const (
	// KindScript callbacks execute code for their side effects; the
	// return value is ignored.
	KindScript Kind = "script"

	// KindFolder callbacks return listing items shown as a folder.
	KindFolder Kind = "folder"

	// KindResolver callbacks resolve a playable target.
	KindResolver Kind = "resolver"
)

// RootPath is the reserved path of the plugin entry point.
const RootPath = "root"

// HandlerFunc is the signature of a route callback. It receives the
// session context for the current dispatch cycle and the callback
// parameters decoded from the request; support parameters never reach it.
type HandlerFunc func(ctx *Context, p params.Mapping) (any, error)

// Descriptor binds a normalized route path to its handler kind and
// callback. Descriptors are assembled into explicit tables at startup
// and registered before the first dispatch.
type Descriptor struct {
	// Path is the normalized route key. Use ComputePath to derive it
	// from a declaring scope and callback name.
	Path string

	// Kind selects the result-validation contract.
	Kind Kind

	// Func is the callback.
	Func HandlerFunc

	// ArgNames lists the callback's declared parameter names in
	// declaration order, excluding the injected context. The path
	// builder maps positional arguments onto these names.
	ArgNames []string

	// Source names the table that registered the descriptor, for
	// conflict logging.
	Source string
}

// noopValue is the type of the Noop sentinel.
type noopValue struct{}

// Noop is the deliberate silent no-op return value. A folder or resolver
// callback returning Noop ends the cycle without content and without
// error, distinct from an empty result.
var Noop = noopValue{}
