// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package errutil

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
)

func TestLogError_OopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := oops.Code("TEST_CODE").With("key", "value").Errorf("something broke")
	LogError(logger, "operation failed", err)

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "TEST_CODE")
	assert.Contains(t, out, "something broke")
}

func TestLogError_StandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogError(logger, "operation failed", errors.New("plain error"))

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.Contains(t, out, "plain error")
	assert.NotContains(t, out, "code=")
}

func TestLogErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	LogErrorLevel(context.Background(), logger, slog.Level(12), "boundary failure", errors.New("boom"))

	assert.Contains(t, buf.String(), "boundary failure")
}
