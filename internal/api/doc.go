// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package api provides the HTTP REST API layer for Constellarium.

This package implements the endpoints for driving legacy life-log
imports and querying the normalized journal store. It is the interface
between operators (or a frontend) and the import pipeline.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: Request handlers for all API endpoints
  - Response formatting: Standardized JSON envelopes with metadata
  - Error handling: Consistent error responses with stable error codes
  - Authentication: optional static bearer token via middleware
  - Rate limiting: per-IP limits tuned per endpoint group
  - CORS: Cross-Origin Resource Sharing for frontend compatibility

API Categories:

1. Import Endpoints (/api/v1/import):
  - Start, stop, and monitor import runs
  - Inspect a legacy source database before importing
  - Read and clear per-source run history

2. Entries Endpoints (/api/v1/entries):
  - Filterable, paginated journal entry listing
  - Single entry lookup by ID
  - Aggregate statistics (mood, activity, category distributions)

3. Health Endpoints (/health):
  - Liveness and readiness probes
  - Overall health including store connectivity and importer state

4. WebSocket Endpoint (/api/v1/ws):
  - Live import progress broadcasts
  - Run completion and failure notifications

Usage Example:

	import (
	    "github.com/mvellano/constellarium/internal/api"
	    "github.com/mvellano/constellarium/internal/database"
	    "github.com/mvellano/constellarium/internal/journal"
	)

	// Create dependencies
	db, _ := database.New(&cfg.Database)
	importer := journal.NewImporter(&cfg.Import, db, tracker)

	// Create handler and router
	handler := api.NewHandler(db, importer, cfg, wsHub)
	router := api.NewRouter(handler)

	// Setup routes and start server
	http.ListenAndServe(":8088", router.SetupChi())

Error Codes:

Every error response carries a stable machine-readable code
(VALIDATION_ERROR, IMPORT_RUNNING, IMPORT_IDLE, SOURCE_ERROR,
DATABASE_ERROR, NOT_FOUND, UNAUTHORIZED, SERVICE_UNAVAILABLE) so
clients can branch without parsing messages.

Thread Safety:

All handlers are safe for concurrent request handling. Shared
resources (entry store, importer, WebSocket hub) are protected by
their own synchronization primitives.

See Also:

  - internal/journal: Import orchestration
  - internal/database: Entry store
  - internal/models: Request/response data structures
  - internal/middleware: HTTP middleware components
*/
package api
