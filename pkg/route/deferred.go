// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"log/slog"
	"time"

	"github.com/quickplug/quickplug/pkg/errutil"
)

// Defer queues a callback for execution after the response has been
// delivered to the host. Useful for fetching extra metadata without
// slowing down the listing. The queue drains in LIFO order and is
// cleared by Reset.
func (c *Context) Defer(fn func() error) {
	c.deferred = append(c.deferred, fn)
}

// runDeferred drains the deferred queue, most recently deferred first.
// A failing or panicking item is logged and swallowed so it cannot block
// the rest of the queue. The queue is empty once the drain completes.
func (c *Context) runDeferred(logger *slog.Logger) {
	if len(c.deferred) == 0 {
		return
	}

	start := time.Now()
	for i := len(c.deferred) - 1; i >= 0; i-- {
		runDeferredItem(logger, c.deferred[i])
	}
	c.deferred = nil

	logger.Debug("deferred callbacks executed", "duration", time.Since(start))
}

// runDeferredItem executes one queue item behind a recover barrier.
func runDeferredItem(logger *slog.Logger, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("deferred callback panicked", "panic", r)
			RecordDeferredFailure()
		}
	}()

	if err := fn(); err != nil {
		errutil.LogError(logger, "deferred callback failed", err)
		RecordDeferredFailure()
	}
}
