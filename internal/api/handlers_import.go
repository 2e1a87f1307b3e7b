// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/models"
	"github.com/mvellano/constellarium/internal/source"
)

// defaultImportTimeout bounds background runs when no timeout is configured.
const defaultImportTimeout = 30 * time.Minute

// ImportStartRequest carries optional overrides for an import run. An
// empty source path falls back to the configured one.
type ImportStartRequest struct {
	SourcePath  string `json:"source_path,omitempty" validate:"omitempty,max=4096"`
	Incremental bool   `json:"incremental,omitempty"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

// ValidateSourceRequest names a legacy source database to inspect.
type ValidateSourceRequest struct {
	SourcePath string `json:"source_path" validate:"required,max=4096"`
}

// ImportStart launches an import run in the background and returns
// immediately. Progress is observable via the status endpoint and the
// WebSocket feed.
//
// Method: POST
// Path: /api/v1/import
//
// Request body (optional): ImportStartRequest
//
// Response:
//   - 202: Run accepted, current status snapshot returned
//   - 400: Malformed request body
//   - 409: An import run is already in progress
func (h *Handler) ImportStart(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) || !h.requireImporter(w) {
		return
	}

	if h.importer.IsRunning() {
		respondError(w, http.StatusConflict, "IMPORT_RUNNING", "An import is already in progress", nil)
		return
	}

	// Parse optional request body
	var req ImportStartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error(), nil)
			return
		}
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	opts := journal.RunOptions{
		SourcePath:  req.SourcePath,
		Incremental: req.Incremental,
		DryRun:      req.DryRun,
	}

	// Run in the background on a detached context so the import survives
	// the HTTP request, bounded by the configured timeout so it cannot
	// hang forever. A fresh correlation ID keeps the run's log lines
	// traceable as one unit.
	timeout := defaultImportTimeout
	if h.config != nil && h.config.Import.Timeout > 0 {
		timeout = h.config.Import.Timeout
	}

	runCtx, cancel := context.WithTimeout(logging.ContextWithNewCorrelationID(context.Background()), timeout)
	go func() {
		defer cancel()
		if _, err := h.importer.Run(runCtx, opts); err != nil {
			// Completed runs and cancellations log inside the importer;
			// this catches start failures such as a lost race for the
			// run slot.
			logging.Error().Err(err).
				Str("source_path", sanitizeLogValue(opts.SourcePath)).
				Msg("Background import run failed")
		}
	}()

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data:   h.importer.Status(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// ImportStatus reports the progress of the current run, or the final
// numbers of the last one.
//
// Method: GET
// Path: /api/v1/import/status
//
// Response:
//   - 200: Status snapshot
func (h *Handler) ImportStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireImporter(w) {
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.importer.Status(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// ImportStop cancels the running import. The run winds down
// cooperatively: rows already flushed to the store stay.
//
// Method: POST
// Path: /api/v1/import/stop
//
// Response:
//   - 200: Stop requested, status snapshot returned
//   - 409: No import in progress
func (h *Handler) ImportStop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) || !h.requireImporter(w) {
		return
	}

	if err := h.importer.Stop(); err != nil {
		if errors.Is(err, journal.ErrNotRunning) {
			respondError(w, http.StatusConflict, "IMPORT_IDLE", "No import in progress", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "SERVICE_UNAVAILABLE", "Failed to stop import", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   h.importer.Status(),
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// ImportHistory returns the saved run marker for a source database.
//
// Method: GET
// Path: /api/v1/import/history
//
// Query parameters:
//   - source: source database path (defaults to the configured one)
//
// Response:
//   - 200: Run marker for the source
//   - 404: No recorded run for the source
//   - 500: Marker store failure
func (h *Handler) ImportHistory(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireImporter(w) {
		return
	}

	sourcePath := r.URL.Query().Get("source")

	marker, err := h.importer.History(r.Context(), sourcePath)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load import history", err)
		return
	}
	if marker == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No recorded import for this source", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   marker,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// ImportHistoryClear removes the saved run marker for a source, forcing
// the next incremental run to rescan from the beginning.
//
// Method: DELETE
// Path: /api/v1/import/history
//
// Query parameters:
//   - source: source database path (defaults to the configured one)
//
// Response:
//   - 200: Marker cleared
//   - 409: An import run is in progress
//   - 500: Marker store failure
func (h *Handler) ImportHistoryClear(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodDelete) || !h.requireImporter(w) {
		return
	}

	if h.importer.IsRunning() {
		respondError(w, http.StatusConflict, "IMPORT_RUNNING", "Cannot clear history while an import is running", nil)
		return
	}

	sourcePath := r.URL.Query().Get("source")

	if err := h.importer.ClearHistory(r.Context(), sourcePath); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to clear import history", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"cleared": true},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// ImportValidate opens a legacy source database and reports its
// inferred structure without importing anything. Operators use this to
// confirm schema inference picked the right table and columns before
// committing to a run.
//
// Method: POST
// Path: /api/v1/import/validate
//
// Request body: ValidateSourceRequest
//
// Response:
//   - 200: Source report (tables, entries table, columns, row count)
//   - 400: Malformed body or unreadable database file
//   - 422: No entries-like table found
//   - 500: Source query failure
func (h *Handler) ImportValidate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) || !h.requireImporter(w) {
		return
	}

	var req ValidateSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error(), nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	report, err := h.importer.InspectSource(r.Context(), req.SourcePath)
	if err != nil {
		switch {
		case errors.Is(err, source.ErrDatabaseOpen):
			respondError(w, http.StatusBadRequest, "SOURCE_ERROR", "Failed to open source database", err)
		case errors.Is(err, source.ErrNoEntriesTable):
			respondError(w, http.StatusUnprocessableEntity, "SOURCE_ERROR", "No entries-like table found in source database", err)
		default:
			respondError(w, http.StatusInternalServerError, "SOURCE_ERROR", "Failed to inspect source database", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   report,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
