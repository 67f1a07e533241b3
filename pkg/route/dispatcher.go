// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/quickplug/quickplug/pkg/errutil"
	"github.com/quickplug/quickplug/pkg/host"
	"github.com/quickplug/quickplug/pkg/logging"
	"github.com/quickplug/quickplug/pkg/params"
)

var tracer = otel.Tracer("quickplug/route")

// Construction errors.
var (
	ErrNilRegistry = errors.New("route: registry must not be nil")
	ErrNilHost     = errors.New("route: host must not be nil")
	ErrNilRenderer = errors.New("route: renderer must not be nil")
)

// Request is one parsed host invocation.
type Request struct {
	// AddonID is the host part of the request URL.
	AddonID string

	// Selector is the normalized route path.
	Selector string

	// Handle is the host's numeric request identifier.
	Handle int

	// RawQuery is the undecoded query string, without the leading "?".
	RawQuery string
}

// ParseRequest extracts the selector, handle and raw query from the
// argv convention used by the host: argv[0] is the base plugin URL,
// argv[1] the numeric handle, argv[2] the query string with leading "?".
func ParseRequest(argv []string) (*Request, error) {
	if len(argv) < 2 {
		return nil, ErrMalformedRequest("expected base url and handle, got %d arguments", len(argv))
	}

	base := argv[0]
	if !strings.HasPrefix(base, Scheme+"://") {
		return nil, ErrMalformedRequest("not a %s:// url: %q", Scheme, base)
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, oops.Code(CodeMalformedRequest).Wrapf(err, "malformed request url %q", base)
	}

	handle, err := strconv.Atoi(argv[1])
	if err != nil || handle < 0 {
		return nil, ErrMalformedRequest("handle must be a non-negative integer, got %q", argv[1])
	}

	rawQuery := u.RawQuery
	if len(argv) > 2 {
		if q := strings.TrimPrefix(argv[2], "?"); q != "" {
			rawQuery = q
		}
	}

	return &Request{
		AddonID:  u.Host,
		Selector: NormalizePath(u.Path),
		Handle:   handle,
		RawQuery: rawQuery,
	}, nil
}

// Dispatcher resolves host requests against the registry, invokes the
// matching callback, and delivers the validated result to the rendering
// collaborator. Nothing raised during a cycle propagates past Dispatch:
// failures are logged at critical severity and surfaced through the
// notification collaborator.
type Dispatcher struct {
	registry *Registry
	host     host.Host
	renderer host.Renderer
	logger   *slog.Logger
}

// DispatcherOption configures a Dispatcher during construction.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the dispatcher logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher bound to a registry, host and
// renderer. Returns an error if any collaborator is nil.
func NewDispatcher(reg *Registry, h host.Host, r host.Renderer, opts ...DispatcherOption) (*Dispatcher, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}
	if h == nil {
		return nil, ErrNilHost
	}
	if r == nil {
		return nil, ErrNilRenderer
	}
	d := &Dispatcher{
		registry: reg,
		host:     h,
		renderer: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Dispatch runs one full cycle for the given argv. The session context
// is reset before dispatch begins and unconditionally on exit, so no
// state leaks into the next invocation of a reused process.
func (d *Dispatcher) Dispatch(ctx context.Context, argv []string) {
	logger := d.logger.With("cycle_id", ulid.Make().String())
	sctx := NewContext(d.registry, "", d.host, logger)
	defer sctx.Reset()

	ctx, span := tracer.Start(ctx, "route.dispatch",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	start := time.Now()
	desc, status, err := d.run(ctx, sctx, argv, logger)

	pathLabel, kindLabel := "unknown", "unknown"
	if desc != nil {
		pathLabel, kindLabel = desc.Path, string(desc.Kind)
		span.SetAttributes(
			attribute.String("route.path", desc.Path),
			attribute.String("route.kind", string(desc.Kind)),
		)
	}
	RecordDispatchDuration(pathLabel, kindLabel, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		RecordDispatch(pathLabel, kindLabel, statusFor(err))

		errutil.LogErrorLevel(ctx, logger, logging.LevelCritical, "dispatch failed", err)
		d.host.Notify(errorHeading(err), err.Error(), host.IconError)
		if sctx.Handle >= 0 {
			d.renderer.EndOfDirectory(sctx.Handle, false)
		}
		return
	}

	RecordDispatch(pathLabel, kindLabel, status)
	logger.Debug("route executed",
		"path", pathLabel,
		"status", status,
		"duration", time.Since(start))

	sctx.runDeferred(logger)
}

// run performs the fallible part of the cycle: parse, lookup, decode,
// invoke, validate, render.
func (d *Dispatcher) run(ctx context.Context, sctx *Context, argv []string, logger *slog.Logger) (*Descriptor, string, error) {
	req, err := ParseRequest(argv)
	if err != nil {
		return nil, "", err
	}
	// Record the handle immediately so a lookup or decode failure can
	// still terminate the host-side directory for this request.
	sctx.Handle = req.Handle

	desc, err := d.registry.Lookup(req.Selector)
	if err != nil {
		return nil, "", err
	}

	decoded, err := params.Decode(req.RawQuery)
	if err != nil {
		return desc, "", err
	}
	sctx.begin(req, desc, decoded)

	logger.Debug("dispatching to route",
		"path", desc.Path,
		"handle", req.Handle,
		"callback_params", len(sctx.CallbackParams))

	result, err := invoke(ctx, desc, sctx)
	if err != nil {
		return desc, "", err
	}

	switch desc.Kind {
	case KindScript:
		return desc, StatusSuccess, nil

	case KindResolver:
		item, noop, err := resolveResult(desc.Path, result)
		if err != nil {
			return desc, "", err
		}
		if noop {
			d.renderer.EndOfDirectory(req.Handle, false)
			return desc, StatusNoop, nil
		}
		if err := d.renderer.Resolve(req.Handle, item); err != nil {
			return desc, "", oops.With("path", desc.Path).Wrapf(err, "rendering resolved item")
		}
		return desc, StatusSuccess, nil

	case KindFolder:
		items, noop, err := ValidateItems(desc.Path, result)
		if err != nil {
			return desc, "", err
		}
		if noop {
			d.renderer.EndOfDirectory(req.Handle, false)
			return desc, StatusNoop, nil
		}
		l := sctx.buildListing(items)
		logger.Debug("listing assembled",
			"items", len(l.Items),
			"content_type", l.ContentType,
			"sort_methods", l.SortMethods)
		if err := d.renderer.Display(req.Handle, l); err != nil {
			return desc, "", oops.With("path", desc.Path).Wrapf(err, "rendering listing")
		}
		return desc, StatusSuccess, nil

	default:
		return desc, "", oops.With("path", desc.Path).Errorf("unknown handler kind %q", desc.Kind)
	}
}

// invoke calls the callback behind a recover barrier so a panicking
// handler cannot cross the dispatch boundary.
func invoke(_ context.Context, desc *Descriptor, sctx *Context) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = oops.With("path", desc.Path).Errorf("callback panic: %v", r)
		}
	}()
	return desc.Func(sctx, sctx.CallbackParams)
}
