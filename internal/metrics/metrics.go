// ============================================================================
// Metrics - Prometheus instrumentation
// ============================================================================
//
// Package: internal/metrics
// File: metrics.go
// Purpose: Collects and exposes pipeline metrics in Prometheus format.
//
// Metric inventory:
//
//   Counters (cumulative):
//     - logfreq_events_enqueued_total: events accepted by the queue
//     - logfreq_events_rejected_total: events refused (draining or malformed)
//     - logfreq_events_processed_total: events consumed by the processor
//     - logfreq_sink_write_failures_total: sink appends that failed
//
//   Histogram:
//     - logfreq_event_process_seconds: per-event processing latency
//
//   Gauge:
//     - logfreq_queue_depth: current number of queued events
//
// Exposed via /metrics on the configured port when enabled.
//
// ============================================================================

package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the pipeline's Prometheus metrics.
type Collector struct {
	eventsEnqueued  prometheus.Counter
	eventsRejected  prometheus.Counter
	eventsProcessed prometheus.Counter
	sinkFailures    prometheus.Counter

	processLatency prometheus.Histogram
	queueDepth     prometheus.Gauge
}

// NewCollector creates and registers the pipeline metrics on the default
// registerer.
func NewCollector() *Collector {
	c := &Collector{
		eventsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logfreq_events_enqueued_total",
			Help: "Total number of events accepted by the queue",
		}),
		eventsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logfreq_events_rejected_total",
			Help: "Total number of events rejected by the queue",
		}),
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logfreq_events_processed_total",
			Help: "Total number of events consumed by the processor",
		}),
		sinkFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "logfreq_sink_write_failures_total",
			Help: "Total number of failed sink appends",
		}),
		processLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "logfreq_event_process_seconds",
			Help:    "Per-event processing latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "logfreq_queue_depth",
			Help: "Current number of queued events",
		}),
	}

	prometheus.MustRegister(c.eventsEnqueued)
	prometheus.MustRegister(c.eventsRejected)
	prometheus.MustRegister(c.eventsProcessed)
	prometheus.MustRegister(c.sinkFailures)
	prometheus.MustRegister(c.processLatency)
	prometheus.MustRegister(c.queueDepth)

	return c
}

// RecordEnqueue records an accepted event.
func (c *Collector) RecordEnqueue() {
	c.eventsEnqueued.Inc()
}

// RecordRejected records a refused event.
func (c *Collector) RecordRejected() {
	c.eventsRejected.Inc()
}

// RecordProcessed records one consumed event and its latency.
func (c *Collector) RecordProcessed(latencySeconds float64) {
	c.eventsProcessed.Inc()
	c.processLatency.Observe(latencySeconds)
}

// RecordSinkFailure records one failed sink append.
func (c *Collector) RecordSinkFailure() {
	c.sinkFailures.Inc()
}

// SetQueueDepth updates the queue depth gauge.
func (c *Collector) SetQueueDepth(depth int) {
	c.queueDepth.Set(float64(depth))
}

// StartServer starts the Prometheus metrics HTTP server. Blocks until the
// server fails.
func StartServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	addr := fmt.Sprintf(":%d", port)
	return http.ListenAndServe(addr, nil)
}
