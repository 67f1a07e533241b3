// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/quickplug/quickplug/pkg/host"
	"github.com/quickplug/quickplug/pkg/listing"
	"github.com/quickplug/quickplug/pkg/params"
)

// Reserved support parameter names. Keys both prefixed and suffixed with
// an underscore belong to the framework and never reach callback code.
const (
	// ParamTitle carries the listing title into the next cycle.
	ParamTitle = "_title_"

	// ParamUpdateListing forces the host to update the current listing
	// instead of pushing a new one.
	ParamUpdateListing = "_updatelisting_"

	// ParamCacheToDisc controls host-side disc caching of the listing.
	ParamCacheToDisc = "_cache_to_disc_"
)

// categoryCounter strips a trailing "(n)" item counter from a title.
var categoryCounter = regexp.MustCompile(`\(\d+\)$`)

// Context is the session state of one dispatch cycle, constructed fresh
// per cycle and threaded through the registry, dispatcher and callback.
// A Context must not be shared between concurrent dispatch cycles.
type Context struct {
	// Handle is the opaque numeric request identifier supplied by the
	// host, used only to correlate the response. -1 when unset.
	Handle int

	// Selector is the currently dispatching route path.
	Selector string

	// Params is the full decoded parameter mapping of the request.
	Params params.Mapping

	// CallbackParams holds the parameters forwarded to the callback.
	CallbackParams params.Mapping

	// SupportParams holds the framework-reserved parameters.
	SupportParams params.Mapping

	// Title is the listing title taken from the support channel.
	Title string

	// UpdateListing is the forced listing-update flag.
	UpdateListing bool

	// CacheToDisc is the disc-cache flag. Defaults to true.
	CacheToDisc bool

	registry   *Registry
	host       host.Host
	logger     *slog.Logger
	addonID    string
	descriptor *Descriptor

	contentType string
	autosort    bool
	manualSort  []string
	autoHints   map[string]struct{}
	deferred    []func() error
}

// NewContext creates a context bound to a registry and addon identifier.
// The host may be nil for contexts that only build paths.
func NewContext(reg *Registry, addonID string, h host.Host, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Context{
		registry: reg,
		addonID:  addonID,
		host:     h,
		logger:   logger,
	}
	c.Reset()
	return c
}

// Reset returns every session field to its zero state. It is idempotent
// and is called by the dispatcher both before a cycle begins and
// unconditionally when it ends, so no state leaks across reused-process
// invocations.
func (c *Context) Reset() {
	c.Handle = -1
	c.Selector = RootPath
	c.Params = params.Mapping{}
	c.CallbackParams = params.Mapping{}
	c.SupportParams = params.Mapping{}
	c.Title = ""
	c.UpdateListing = false
	c.CacheToDisc = true
	c.descriptor = nil
	c.contentType = ""
	c.autosort = true
	c.manualSort = nil
	c.autoHints = make(map[string]struct{})
	c.deferred = nil
}

// begin loads the parsed request into the context and splits the decoded
// parameters into the support and callback channels.
func (c *Context) begin(req *Request, desc *Descriptor, m params.Mapping) {
	c.Handle = req.Handle
	c.Selector = desc.Path
	c.descriptor = desc
	if req.AddonID != "" {
		c.addonID = req.AddonID
	}

	c.Params = m
	for k, v := range m {
		if isSupportKey(k) {
			c.SupportParams[k] = v
		} else {
			c.CallbackParams[k] = v
		}
	}

	c.Title = c.SupportParams.String(ParamTitle)
	c.UpdateListing = c.SupportParams.Bool(ParamUpdateListing, false)
	c.CacheToDisc = c.SupportParams.Bool(ParamCacheToDisc, true)
}

// isSupportKey reports whether a parameter name is reserved for the
// framework: prefixed and suffixed with an underscore.
func isSupportKey(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "_") && strings.HasSuffix(key, "_")
}

// Descriptor returns the descriptor currently dispatching, or nil before
// dispatch begins.
func (c *Context) Descriptor() *Descriptor {
	return c.descriptor
}

// Host returns the host collaborator.
func (c *Context) Host() host.Host {
	return c.host
}

// Registry returns the route registry the context is bound to.
func (c *Context) Registry() *Registry {
	return c.registry
}

// Setting returns an addon setting from the host.
func (c *Context) Setting(key string) string {
	if c.host == nil {
		return ""
	}
	return c.host.Setting(key)
}

// Localize returns a localized string from the host.
func (c *Context) Localize(id int) string {
	if c.host == nil {
		return ""
	}
	return c.host.LocalizedString(id)
}

// Notify forwards a notification to the host. Fire-and-forget.
func (c *Context) Notify(heading, message, icon string) {
	if c.host != nil {
		c.host.Notify(heading, message, icon)
	}
}

// Log returns the cycle logger.
func (c *Context) Log() *slog.Logger {
	return c.logger
}

// SetContent overrides the inferred content type for this listing.
func (c *Context) SetContent(contentType string) {
	c.contentType = contentType
}

// AddSortMethods appends manual sort hints, preserving insertion order.
// Manual hints always precede auto-collected ones in the final merge.
func (c *Context) AddSortMethods(hints ...string) {
	c.manualSort = append(c.manualSort, hints...)
}

// DisableAutosort drops the auto-collected sort hints from the merge.
func (c *Context) DisableAutosort() {
	c.autosort = false
}

// CollectSortHint records an auto sort hint while the callback issues
// items. Duplicates collapse.
func (c *Context) CollectSortHint(hint string) {
	c.autoHints[hint] = struct{}{}
}

// buildListing assembles the rendering payload for a validated item set.
func (c *Context) buildListing(items []*listing.Item) *listing.Listing {
	contentType := c.contentType
	if contentType == "" {
		contentType = GuessContentType(items)
	}
	return &listing.Listing{
		Items:         items,
		Category:      c.category(),
		ContentType:   contentType,
		SortMethods:   BuildSortMethods(c.manualSort, c.autoHintList(), c.autosort),
		UpdateListing: c.UpdateListing,
		CacheToDisc:   c.CacheToDisc,
	}
}

// category derives the listing category from the title, stripping any
// trailing item counter like "(25)".
func (c *Context) category() string {
	return strings.TrimSpace(categoryCounter.ReplaceAllString(c.Title, ""))
}

// autoHintList returns the collected auto hints in sorted order.
func (c *Context) autoHintList() []string {
	out := make([]string, 0, len(c.autoHints))
	for hint := range c.autoHints {
		out = append(out, hint)
	}
	sort.Strings(out)
	return out
}
