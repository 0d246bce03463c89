// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	EventsIngested   prometheus.Counter
	EventsDuplicate  prometheus.Counter
	EventsRejected   prometheus.Counter
	HoldingsIngested prometheus.Counter
	ArchiveFailures  prometheus.Counter

	// Engine metrics
	RunsTotal       *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	SignalsDetected *prometheus.CounterVec
	DetectorErrors  *prometheus.CounterVec

	// Delivery metrics
	SignalsDelivered  prometheus.Counter
	SignalsSuppressed prometheus.Counter
	SignalsTruncated  prometheus.Counter
	DeliveryFailures  prometheus.Counter

	// Ledger metrics
	LedgerEntriesSwept prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "insider_radar"
	}

	return &Metrics{
		EventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_total",
			Help:      "Total number of trade events ingested",
		}),
		EventsDuplicate: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_duplicate_total",
			Help:      "Total number of trade events skipped as duplicates",
		}),
		EventsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "events_rejected_total",
			Help:      "Total number of trade events rejected during validation",
		}),
		HoldingsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "holdings_total",
			Help:      "Total number of holding snapshots ingested",
		}),
		ArchiveFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "archive_failures_total",
			Help:      "Total number of events that failed to archive",
		}),

		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "runs_total",
			Help:      "Total number of engine runs by status",
		}, []string{"status"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "run_duration_seconds",
			Help:      "Engine run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}),
		SignalsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "signals_detected_total",
			Help:      "Total number of signals detected by pattern",
		}, []string{"pattern"}),
		DetectorErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "detector_errors_total",
			Help:      "Total number of detector failures by pattern",
		}, []string{"pattern"}),

		SignalsDelivered: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "signals_delivered_total",
			Help:      "Total number of signals delivered",
		}),
		SignalsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "signals_suppressed_total",
			Help:      "Total number of signals suppressed by the dedup ledger",
		}),
		SignalsTruncated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "signals_truncated_total",
			Help:      "Total number of signals dropped by top-N truncation",
		}),
		DeliveryFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "delivery",
			Name:      "failures_total",
			Help:      "Total number of failed delivery attempts",
		}),

		LedgerEntriesSwept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "entries_swept_total",
			Help:      "Total number of expired ledger entries removed",
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful engine run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordFeedLoaded adds one feed load's counts to the ingest counters.
func RecordFeedLoaded(inserted, duplicate, holdings, rejected int, archiveFailed bool) {
	DefaultMetrics.EventsIngested.Add(float64(inserted))
	DefaultMetrics.EventsDuplicate.Add(float64(duplicate))
	DefaultMetrics.HoldingsIngested.Add(float64(holdings))
	DefaultMetrics.EventsRejected.Add(float64(rejected))
	if archiveFailed {
		DefaultMetrics.ArchiveFailures.Inc()
	}
}

// RecordRun records the outcome and duration of one engine run.
func RecordRun(status string, seconds float64) {
	DefaultMetrics.RunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.RunDuration.Observe(seconds)
	if status == "ok" {
		DefaultMetrics.LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordSignalDetected increments the detected signals counter for a pattern.
func RecordSignalDetected(pattern string) {
	DefaultMetrics.SignalsDetected.WithLabelValues(pattern).Inc()
}

// RecordDetectorError increments the detector error counter for a pattern.
func RecordDetectorError(pattern string) {
	DefaultMetrics.DetectorErrors.WithLabelValues(pattern).Inc()
}

// RecordDelivered increments the delivered signals counter.
func RecordDelivered() {
	DefaultMetrics.SignalsDelivered.Inc()
}

// RecordSuppressed increments the suppressed signals counter.
func RecordSuppressed() {
	DefaultMetrics.SignalsSuppressed.Inc()
}

// RecordTruncated adds to the truncated signals counter.
func RecordTruncated(n int) {
	DefaultMetrics.SignalsTruncated.Add(float64(n))
}

// RecordDeliveryFailure increments the failed deliveries counter.
func RecordDeliveryFailure() {
	DefaultMetrics.DeliveryFailures.Inc()
}

// RecordSwept adds to the swept ledger entries counter.
func RecordSwept(n int) {
	DefaultMetrics.LedgerEntriesSwept.Add(float64(n))
}
