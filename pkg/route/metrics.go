// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Quickplug Contributors

package route

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for dispatch metrics.
const (
	StatusSuccess   = "success"
	StatusNoop      = "noop"
	StatusError     = "error"
	StatusNotFound  = "not_found"
	StatusMalformed = "malformed"
)

// DispatchExecutions is the counter for dispatch cycles.
// Use RegisterMetrics to register this with a Prometheus registry.
var DispatchExecutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quickplug_dispatch_total",
		Help: "Total number of dispatch cycles",
	},
	[]string{"path", "kind", "status"},
)

// DispatchDuration is the histogram for dispatch cycle duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var DispatchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "quickplug_dispatch_duration_seconds",
		Help:    "Dispatch cycle duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "kind"},
)

// DeferredFailures is the counter for failed deferred callbacks.
// Use RegisterMetrics to register this with a Prometheus registry.
var DeferredFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "quickplug_deferred_failures_total",
		Help: "Total number of deferred callbacks that failed or panicked",
	},
)

// RegisterMetrics registers route package metrics with the given
// Prometheus registry. Panics if registration fails (following
// prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(DispatchExecutions)
	reg.MustRegister(DispatchDuration)
	reg.MustRegister(DeferredFailures)
}

// RecordDispatch increments the dispatch counter.
func RecordDispatch(path, kind, status string) {
	DispatchExecutions.WithLabelValues(path, kind, status).Inc()
}

// RecordDispatchDuration records the duration of a dispatch cycle.
func RecordDispatchDuration(path, kind string, duration time.Duration) {
	DispatchDuration.WithLabelValues(path, kind).Observe(duration.Seconds())
}

// RecordDeferredFailure increments the deferred failure counter.
func RecordDeferredFailure() {
	DeferredFailures.Inc()
}
