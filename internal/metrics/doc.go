// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package metrics provides Prometheus metrics collection and export for
observability.

All metrics register themselves with the default registry via promauto
at package load; the API layer serves them at /metrics in Prometheus
text format:

	curl http://localhost:8088/metrics

# Available Metrics

Import Metrics:
  - import_rows_processed_total: Source rows read (counter)
  - import_entries_imported_total: Entries persisted to the store (counter)
  - import_duplicates_skipped_total: Rows discarded as duplicates (counter)
  - import_row_errors_total: Rows skipped for extraction or validation
    failures (counter)
  - import_runs_total: Completed runs (counter)
    Labels: outcome (completed, failed, canceled)
  - import_duration_seconds: Full run duration (histogram)
  - import_in_flight: 1 while a run is active (gauge)
  - import_last_success_timestamp: Unix timestamp of the last run that
    flushed successfully (gauge)

Store Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation
  - duckdb_batch_insert_size: Entries per terminal flush (histogram)

API Metrics:
  - api_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

WebSocket Metrics:
  - websocket_connections: Active progress-feed clients (gauge)
  - websocket_messages_sent_total: Messages delivered (counter)
  - websocket_messages_dropped_total: Messages dropped for slow
    clients (counter)

Record* helper functions wrap the common multi-metric updates so call
sites stay one line.
*/
package metrics
