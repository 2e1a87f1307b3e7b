// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mvellano/constellarium/internal/models"
)

// This file contains the journal entry query endpoints. All handlers
// follow a consistent pattern:
//  1. Method validation
//  2. Parameter parsing and validation
//  3. Store query with request context
//  4. JSON envelope response with query timing metadata

// EntriesRequest bounds the entries list parameters. The enum values
// mirror the canonical vocabularies; anything else is rejected before
// the store is touched.
type EntriesRequest struct {
	Mood     string `validate:"omitempty,oneof=very_happy happy neutral sad very_sad"`
	Activity string `validate:"omitempty,oneof=work exercise social food travel learning entertainment health family unknown"`
	Category string `validate:"omitempty,oneof=cluster path constellation orb particle"`
	Search   string `validate:"omitempty,max=500"`
	Limit    int    `validate:"min=1,max=500"`
	Offset   int    `validate:"min=0"`
}

// Entries returns journal entries matching the query filters, newest
// first, with limit/offset pagination.
//
// Method: GET
// Path: /api/v1/entries
//
// Query parameters:
//   - mood, activity, category: canonical enum values
//   - since, until: RFC 3339 timestamps or YYYY-MM-DD dates (inclusive)
//   - has_location: true/false
//   - search: case-insensitive content substring
//   - limit (default 50, max 500), offset
//
// Response:
//   - 200: Page of entries with pagination info
//   - 400: Invalid parameters
//   - 500: Store query failure
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	filter, err := h.parseEntryFilter(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if !h.requireDB(w) {
		return
	}

	start := time.Now()

	entries, err := h.db.QueryEntries(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to retrieve entries", err)
		return
	}

	total, err := h.db.CountEntries(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count entries", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   buildEntriesResponse(entries, filter, total),
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// parseEntryFilter extracts and validates entry list parameters.
func (h *Handler) parseEntryFilter(r *http.Request) (*models.EntryFilter, error) {
	defaultPageSize, maxPageSize := h.getPageSizeConfig()

	req := EntriesRequest{
		Mood:     r.URL.Query().Get("mood"),
		Activity: r.URL.Query().Get("activity"),
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
		Limit:    getIntParam(r, "limit", defaultPageSize),
		Offset:   getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		return nil, fmt.Errorf("%s: %s", apiErr.Code, apiErr.Message)
	}

	// Validate limit against dynamic config
	if req.Limit > maxPageSize {
		return nil, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
	}

	filter := &models.EntryFilter{
		Search: req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	// Enum strings survived the oneof validation, so casting is safe
	if req.Mood != "" {
		mood := models.MoodLevel(req.Mood)
		filter.Mood = &mood
	}
	if req.Activity != "" {
		activity := models.ActivityType(req.Activity)
		filter.Activity = &activity
	}
	if req.Category != "" {
		category := models.VisualizationCategory(req.Category)
		filter.Category = &category
	}

	var err error
	if filter.Since, err = parseTimeParam(r, "since"); err != nil {
		return nil, err
	}
	if filter.Until, err = parseTimeParam(r, "until"); err != nil {
		return nil, err
	}
	if filter.Since != nil && filter.Until != nil && filter.Until.Before(*filter.Since) {
		return nil, fmt.Errorf("until must not be before since")
	}

	if filter.HasLocation, err = parseBoolParam(r, "has_location"); err != nil {
		return nil, err
	}

	return filter, nil
}

// getPageSizeConfig returns page size configuration with safe defaults
func (h *Handler) getPageSizeConfig() (defaultPageSize, maxPageSize int) {
	defaultPageSize, maxPageSize = 50, 500
	if h.config != nil {
		defaultPageSize = h.config.API.DefaultPageSize
		maxPageSize = h.config.API.MaxPageSize
	}
	return defaultPageSize, maxPageSize
}

// buildEntriesResponse creates a standardized EntriesResponse from entries and pagination info
func buildEntriesResponse(entries []*models.JournalEntry, filter *models.EntryFilter, total int64) models.EntriesResponse {
	page := make([]models.JournalEntry, 0, len(entries))
	for _, entry := range entries {
		page = append(page, *entry)
	}

	return models.EntriesResponse{
		Entries: page,
		Pagination: models.PaginationInfo{
			Limit:      filter.Limit,
			Offset:     filter.Offset,
			HasMore:    int64(filter.Offset+len(page)) < total,
			TotalCount: total,
		},
	}
}

// EntryByID returns a single journal entry.
//
// Method: GET
// Path: /api/v1/entries/{id}
//
// Response:
//   - 200: Entry found
//   - 400: Malformed UUID
//   - 404: No entry with that ID
//   - 500: Store query failure
func (h *Handler) EntryByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid entry ID: must be a UUID", nil)
		return
	}

	if !h.requireDB(w) {
		return
	}

	start := time.Now()

	entry, err := h.db.GetEntryByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to retrieve entry", err)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   entry,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// EntryStats returns aggregate statistics over the whole journal:
// totals, timestamp range, and per-mood/activity/category counts.
//
// Method: GET
// Path: /api/v1/entries/stats
//
// Response:
//   - 200: Statistics retrieved successfully
//   - 500: Store query failure
func (h *Handler) EntryStats(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) || !h.requireDB(w) {
		return
	}

	start := time.Now()

	stats, err := h.db.GetEntryStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to retrieve statistics", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   stats,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
