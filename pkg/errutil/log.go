// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

// Package errutil provides helpers for logging and asserting on
// structured oops errors.
package errutil

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorLevel(context.Background(), logger, slog.LevelError, msg, err)
}

// LogErrorLevel logs an error at an explicit level, for callers that
// need critical severity at the dispatch boundary.
func LogErrorLevel(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != "" {
			attrs = append(attrs, "code", code)
		}
		if errCtx := oopsErr.Context(); len(errCtx) > 0 {
			attrs = append(attrs, "context", errCtx)
		}
	}
	logger.Log(ctx, level, msg, attrs...)
}
