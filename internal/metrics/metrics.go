// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Run outcome label values for ImportRunsTotal.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeCanceled  = "canceled"
)

var (
	// Import Pipeline Metrics
	ImportRowsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_rows_processed_total",
			Help: "Total number of source rows read by import runs",
		},
	)

	ImportEntriesImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_entries_imported_total",
			Help: "Total number of journal entries persisted to the store",
		},
	)

	ImportDuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_duplicates_skipped_total",
			Help: "Total number of source rows discarded as duplicates",
		},
	)

	ImportRowErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "import_row_errors_total",
			Help: "Total number of source rows skipped for extraction or validation failures",
		},
	)

	ImportRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_runs_total",
			Help: "Total number of import runs by outcome",
		},
		[]string{"outcome"}, // "completed", "failed", "canceled"
	)

	ImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "import_duration_seconds",
			Help:    "Duration of full import runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600}, // legacy archives can take minutes
		},
	)

	ImportInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_in_flight",
			Help: "1 while an import run is active, 0 otherwise",
		},
	)

	ImportLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "import_last_success_timestamp",
			Help: "Unix timestamp of the last import run that flushed successfully",
		},
	)

	// Entry Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBBatchInsertSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "duckdb_batch_insert_size",
			Help:    "Number of entries per terminal flush transaction",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped for slow clients",
		},
	)
)

// RecordImportRun records the outcome and duration of one finished run.
// A completed run also advances the last-success timestamp.
func RecordImportRun(outcome string, duration time.Duration) {
	ImportRunsTotal.WithLabelValues(outcome).Inc()
	ImportDuration.Observe(duration.Seconds())
	if outcome == OutcomeCompleted {
		ImportLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordRowOutcomes adds one run's row counters in a single call.
func RecordRowOutcomes(processed, imported, duplicates, rowErrors int64) {
	ImportRowsProcessed.Add(float64(processed))
	ImportEntriesImported.Add(float64(imported))
	ImportDuplicatesSkipped.Add(float64(duplicates))
	ImportRowErrors.Add(float64(rowErrors))
}

// TrackImportInFlight flips the in-flight gauge around a run.
func TrackImportInFlight(active bool) {
	if active {
		ImportInFlight.Set(1)
	} else {
		ImportInFlight.Set(0)
	}
}

// RecordDBQuery records a store query metric.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordBatchInsert records one terminal flush.
func RecordBatchInsert(duration time.Duration, size int) {
	DBQueryDuration.WithLabelValues("insert_batch").Observe(duration.Seconds())
	DBBatchInsertSize.Observe(float64(size))
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a rate limit rejection.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// TrackWSConnection tracks WebSocket client registration.
func TrackWSConnection(connected bool) {
	if connected {
		WSConnections.Inc()
	} else {
		WSConnections.Dec()
	}
}

// RecordWSMessageSent records a delivered WebSocket message.
func RecordWSMessageSent() {
	WSMessagesSent.Inc()
}

// RecordWSMessageDropped records a message dropped for a slow client.
func RecordWSMessageDropped() {
	WSMessagesDropped.Inc()
}
