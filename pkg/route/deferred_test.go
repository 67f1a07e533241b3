// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunDeferred_LIFOOrder(t *testing.T) {
	c := newTestContext(t)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		c.Defer(func() error {
			order = append(order, name)
			return nil
		})
	}

	c.runDeferred(slog.New(slog.DiscardHandler))

	assert.Equal(t, []string{"third", "second", "first"}, order)
	assert.Empty(t, c.deferred)
}

func TestRunDeferred_FailureDoesNotBlockQueue(t *testing.T) {
	c := newTestContext(t)

	var ran []string
	c.Defer(func() error {
		ran = append(ran, "first")
		return nil
	})
	c.Defer(func() error {
		return errors.New("metadata fetch failed")
	})
	c.Defer(func() error {
		ran = append(ran, "third")
		return nil
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	c.runDeferred(logger)

	assert.Equal(t, []string{"third", "first"}, ran)
	assert.Contains(t, buf.String(), "metadata fetch failed")
}

func TestRunDeferred_PanicSwallowed(t *testing.T) {
	c := newTestContext(t)

	var ran bool
	c.Defer(func() error {
		ran = true
		return nil
	})
	c.Defer(func() error {
		panic("boom")
	})

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	assert.NotPanics(t, func() { c.runDeferred(logger) })

	assert.True(t, ran)
	assert.Contains(t, buf.String(), "boom")
}

func TestRunDeferred_EmptyQueueIsCheap(t *testing.T) {
	c := newTestContext(t)
	assert.NotPanics(t, func() { c.runDeferred(slog.New(slog.DiscardHandler)) })
}

func TestReset_ClearsDeferredQueue(t *testing.T) {
	c := newTestContext(t)

	var ran bool
	c.Defer(func() error {
		ran = true
		return nil
	})
	c.Reset()
	c.runDeferred(slog.New(slog.DiscardHandler))

	assert.False(t, ran)
}
