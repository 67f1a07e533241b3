// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"net/url"

	"github.com/samber/oops"

	"github.com/quickplug/quickplug/pkg/params"
)

// Scheme is the URL scheme the host uses for plugin requests.
const Scheme = "plugin"

// buildConfig collects the path builder options.
type buildConfig struct {
	target *Descriptor
	args   []any
	query  params.Mapping
	extra  params.Mapping
}

// BuildOption configures a BuildPath call.
type BuildOption func(*buildConfig)

// WithTarget selects the target callback. Defaults to the currently
// dispatching one.
func WithTarget(d *Descriptor) BuildOption {
	return func(cfg *buildConfig) {
		cfg.target = d
	}
}

// WithArgs supplies positional arguments, mapped onto the target's
// declared parameter names in declaration order. Arguments beyond the
// declared names are silently dropped; this permissive truncation is a
// deliberate contract, not an error.
func WithArgs(values ...any) BuildOption {
	return func(cfg *buildConfig) {
		cfg.args = values
	}
}

// WithQuery replaces the query mapping entirely. Without it, extra
// parameters merge onto a copy of the current session parameters so
// links generated mid-listing inherit ambient state such as the active
// title.
func WithQuery(q params.Mapping) BuildOption {
	return func(cfg *buildConfig) {
		cfg.query = q
	}
}

// WithParam adds one extra keyword parameter.
func WithParam(key string, value any) BuildOption {
	return func(cfg *buildConfig) {
		if cfg.extra == nil {
			cfg.extra = params.Mapping{}
		}
		cfg.extra[key] = value
	}
}

// BuildPath produces a request URL for a target callback, consistent
// with the registry's naming scheme and the parameter codec's encoding
// rules. Round-tripped through the codec, the URL re-enters the
// dispatcher on the next invocation.
func (c *Context) BuildPath(opts ...BuildOption) (string, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	target := cfg.target
	if target == nil {
		target = c.descriptor
	}
	if target == nil {
		return "", oops.Code(CodeBuildFailed).Errorf("no target callback: not dispatching and no explicit target given")
	}

	var query params.Mapping
	switch {
	case cfg.query != nil:
		query = cfg.query.Copy()
	case len(cfg.extra) > 0:
		query = c.Params.Copy()
	}
	for k, v := range cfg.extra {
		query[k] = v
	}

	if len(cfg.args) > 0 {
		if query == nil {
			query = params.Mapping{}
		}
		if len(cfg.args) > len(target.ArgNames) {
			c.logger.Debug("dropping excess positional arguments",
				"path", target.Path,
				"given", len(cfg.args),
				"declared", len(target.ArgNames))
		}
		for i, v := range cfg.args {
			if i >= len(target.ArgNames) {
				break
			}
			query[target.ArgNames[i]] = v
		}
	}

	rawQuery := ""
	if len(query) > 0 {
		encoded, err := params.Encode(query)
		if err != nil {
			return "", oops.Code(CodeBuildFailed).
				With("path", target.Path).
				Wrap(err)
		}
		rawQuery = encoded
	}

	u := url.URL{
		Scheme:   Scheme,
		Host:     c.addonID,
		Path:     "/" + target.Path,
		RawQuery: rawQuery,
	}
	return u.String(), nil
}
