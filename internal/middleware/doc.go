// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for compression, performance
monitoring, request ID tracking, and Prometheus metrics integration. These
components combine with the chi middleware configured in internal/api to form
the complete middleware stack for HTTP request processing.

Key Components:

  - Compression: Gzip compression for responses
  - Performance Monitor: Request latency tracking with percentile calculations
  - Request ID: UUID-based request tracking for distributed tracing
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The typical middleware stack for an endpoint is:

	http.HandleFunc("/api/v1/endpoint",
	    middleware.PrometheusMetrics(   // Layer 1: Metrics
	        middleware.Compression(     // Layer 2: Gzip
	            middleware.RequestID(   // Layer 3: Request tracking
	                handler,            // Layer 4: Business logic
	            ),
	        ),
	    ),
	)

CORS, rate limiting, and security headers are applied by the chi router
in internal/api before these layers run.

Usage Example - Compression:

	import "github.com/mvellano/constellarium/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/api/v1/entries",
	    middleware.Compression(handler),
	)

	// Accept-Encoding: gzip header is required

Usage Example - Performance Monitoring:

	// Create performance monitor with a 1000-sample window
	perfMon := middleware.NewPerformanceMonitor(1000)

	// Wrap handler
	mux.Handle("/api/v1/entries",
	    perfMon.Middleware(handler),
	)

	// Get performance statistics
	for _, stat := range perfMon.GetStats() {
	    fmt.Printf("%s p50=%dms p95=%dms p99=%dms\n",
	        stat.Path, stat.P50Duration, stat.P95Duration, stat.P99Duration)
	}

Usage Example - Request ID:

	// Request ID middleware
	http.HandleFunc("/api/v1/import",
	    middleware.RequestID(handler),
	)

	// Access request ID in handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] Processing request", requestID)
	}

Performance Characteristics:

  - Compression: 70-90% size reduction for JSON (text/json mime types)
  - Compression overhead: ~1-2ms for typical responses
  - Metrics overhead: <0.1ms per request
  - Request ID overhead: <0.01ms (UUID generation)

Performance Monitor:

The performance monitor tracks:
  - Request count per endpoint
  - Latency percentiles (p50, p95, p99)
  - Rolling window of the N most recent requests
  - Thread-safe concurrent access with RWMutex

Thread Safety:

All middleware components are thread-safe:
  - Compression uses pooled per-request gzip writers
  - Performance monitor uses sync.RWMutex
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: HTTP handlers and chi router wrapped by middleware
  - internal/metrics: Prometheus metrics definitions
*/
package middleware
