// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package logging provides structured logging for plugins running inside
// a media-center host. Debug records are buffered locally and replayed
// at warning level when a critical record arrives, so full debug context
// reaches the host log after a failure without debug logging enabled.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

// LevelCritical marks unrecoverable dispatch-boundary failures. The host
// log treats anything at or above this level as fatal to the cycle.
const LevelCritical = slog.Level(12)

// debugMarker brackets the replayed debug history in the host log.
const debugMarker = "###### debug ######"

// replayState is the debug buffer shared by all clones of a handler.
type replayState struct {
	mu     sync.Mutex
	buffer []slog.Record
}

// replayHandler wraps a slog.Handler, buffering debug records and
// replaying them at warning level when a critical record is handled.
type replayHandler struct {
	handler slog.Handler
	service string
	state   *replayState
}

// NewReplayHandler wraps inner with debug-buffer replay. The service
// name is attached to every record.
func NewReplayHandler(inner slog.Handler, service string) slog.Handler {
	return &replayHandler{
		handler: inner,
		service: service,
		state:   &replayState{},
	}
}

// Handle buffers debug records, forwards everything the inner handler
// accepts, and flushes the debug history when a critical record passes
// through.
func (h *replayHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.service != "" {
		r.AddAttrs(slog.String("service", h.service))
	}

	if r.Level <= slog.LevelDebug {
		h.state.mu.Lock()
		h.state.buffer = append(h.state.buffer, r.Clone())
		h.state.mu.Unlock()
	}

	var err error
	if h.handler.Enabled(ctx, r.Level) {
		err = h.handler.Handle(ctx, r)
	}

	if r.Level >= LevelCritical {
		h.replay(ctx)
	}
	return err
}

// replay re-emits the buffered debug history at warning level, bracketed
// by markers, then clears the buffer.
func (h *replayHandler) replay(ctx context.Context) {
	h.state.mu.Lock()
	buffered := h.state.buffer
	h.state.buffer = nil
	h.state.mu.Unlock()

	if len(buffered) == 0 {
		return
	}

	h.emitWarn(ctx, debugMarker)
	for _, r := range buffered {
		warn := slog.NewRecord(r.Time, slog.LevelWarn, r.Message, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			warn.AddAttrs(a)
			return true
		})
		_ = h.handler.Handle(ctx, warn)
	}
	h.emitWarn(ctx, debugMarker)
}

// emitWarn writes a bare warning record through the inner handler.
func (h *replayHandler) emitWarn(ctx context.Context, msg string) {
	r := slog.NewRecord(time.Now(), slog.LevelWarn, msg, 0)
	_ = h.handler.Handle(ctx, r)
}

// Enabled reports true for debug records even when the inner handler
// filters them, since they must reach the buffer.
func (h *replayHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level <= slog.LevelDebug {
		return true
	}
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a clone sharing the same debug buffer.
func (h *replayHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &replayHandler{
		handler: h.handler.WithAttrs(attrs),
		service: h.service,
		state:   h.state,
	}
}

// WithGroup returns a clone sharing the same debug buffer.
func (h *replayHandler) WithGroup(name string) slog.Handler {
	return &replayHandler{
		handler: h.handler.WithGroup(name),
		service: h.service,
		state:   h.state,
	}
}

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "json" if empty).
// If w is nil, writes to os.Stderr.
func Setup(service, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if level, ok := a.Value.Any().(slog.Level); ok && level >= LevelCritical {
					a.Value = slog.StringValue("CRITICAL")
				}
			}
			return a
		},
	}

	var base slog.Handler
	if format == "text" {
		base = slog.NewTextHandler(w, opts)
	} else {
		base = slog.NewJSONHandler(w, opts)
	}

	return slog.New(NewReplayHandler(base, service))
}

// SetDefault sets up and installs the default logger.
func SetDefault(service, format string) {
	slog.SetDefault(Setup(service, format, nil))
}
