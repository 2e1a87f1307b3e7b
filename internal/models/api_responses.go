// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package models

import (
	"time"
)

// APIResponse is the standardized envelope returned by every HTTP
// endpoint. Status is "success" or "error"; Error is populated only on
// error responses.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"total": 42, "entries": [...]},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "VALIDATION_ERROR", "message": "invalid limit"},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data,omitempty"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. QueryTimeMS is
// the store query execution time and is omitted when no query ran.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError is the structured error payload inside an APIResponse.
//
// Codes used by the API layer:
//   - VALIDATION_ERROR: invalid request parameters or body
//   - IMPORT_RUNNING: an import run is already in progress
//   - IMPORT_IDLE: stop requested with no run in progress
//   - SOURCE_ERROR: the legacy source database is unreadable
//   - DATABASE_ERROR: entry store query failure
//   - NOT_FOUND: resource does not exist
//   - UNAUTHORIZED: missing or wrong bearer token
//   - SERVICE_UNAVAILABLE: a required subsystem is not wired
//   - RATE_LIMITED: per-IP request budget exhausted
//   - METHOD_NOT_ALLOWED: wrong HTTP method for the endpoint
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes the window a list response covers. The
// entries API uses plain limit/offset windows: imports are batch-shaped
// and the store is analytical, so cursor stability buys nothing here.
type PaginationInfo struct {
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	HasMore    bool  `json:"has_more"`
	TotalCount int64 `json:"total_count"`
}

// EntriesResponse wraps a page of journal entries.
type EntriesResponse struct {
	Entries    []JournalEntry `json:"entries"`
	Pagination PaginationInfo `json:"pagination"`
}

// HealthStatus is the health endpoint payload. The service stays
// "healthy" while the entry store answers pings; an import being idle
// or running is state, not health.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	ImportRunning     bool    `json:"import_running"`
	WSClients         int     `json:"ws_clients"`
	Uptime            float64 `json:"uptime"`
}
