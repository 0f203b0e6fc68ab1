// Package metrics collects and exposes Prometheus metrics for the résumé builder.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by the document store, the persistence
// adapter and the export pipeline.
type Recorder interface {
	RecordMutation(op string, applied bool)
	RecordDecodeFailure()
	RecordWriteFailure()
	RecordExport(outcome string, duration time.Duration)
}

// Export outcomes.
const (
	ExportOK           = "ok"
	ExportCaptureError = "capture_error"
	ExportEncodeError  = "encode_error"
	ExportBusy         = "busy"
)

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	mutations      *prometheus.CounterVec
	decodeFailures prometheus.Counter
	writeFailures  prometheus.Counter
	exports        *prometheus.CounterVec
	exportLatency  prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_builder_mutations_total",
			Help: "Document mutations by operation and outcome.",
		}, []string{"op", "outcome"}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_builder_draft_decode_failures_total",
			Help: "Stored drafts that could not be decoded and were replaced by the default document.",
		}),
		writeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "resume_builder_draft_write_failures_total",
			Help: "Draft writes that failed and were ignored.",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "resume_builder_exports_total",
			Help: "Export requests by outcome.",
		}, []string{"outcome"}),
		exportLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "resume_builder_export_latency_seconds",
			Help:    "Time spent capturing and encoding an export.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.mutations,
		c.decodeFailures,
		c.writeFailures,
		c.exports,
		c.exportLatency,
	)

	return c
}

// RecordMutation counts one store operation.
func (c *Collector) RecordMutation(op string, applied bool) {
	outcome := "noop"
	if applied {
		outcome = "applied"
	}
	c.mutations.WithLabelValues(op, outcome).Inc()
}

// RecordDecodeFailure counts a corrupt stored draft.
func (c *Collector) RecordDecodeFailure() {
	c.decodeFailures.Inc()
}

// RecordWriteFailure counts a failed draft write.
func (c *Collector) RecordWriteFailure() {
	c.writeFailures.Inc()
}

// RecordExport counts an export and, for completed ones, observes its latency.
func (c *Collector) RecordExport(outcome string, duration time.Duration) {
	c.exports.WithLabelValues(outcome).Inc()
	if outcome != ExportBusy {
		c.exportLatency.Observe(duration.Seconds())
	}
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Noop discards every measurement.
type Noop struct{}

func (Noop) RecordMutation(string, bool)        {}
func (Noop) RecordDecodeFailure()               {}
func (Noop) RecordWriteFailure()                {}
func (Noop) RecordExport(string, time.Duration) {}
