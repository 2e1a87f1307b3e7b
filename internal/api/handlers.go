// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/middleware"
	"github.com/mvellano/constellarium/internal/models"
	ws "github.com/mvellano/constellarium/internal/websocket"
)

// EntryReader is the slice of the entry store the API reads from.
// *database.DB satisfies it; tests substitute an in-memory fake.
type EntryReader interface {
	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// QueryEntries returns entries matching the filter, newest first.
	QueryEntries(ctx context.Context, filter *models.EntryFilter) ([]*models.JournalEntry, error)

	// CountEntries returns the total match count, ignoring the
	// filter's limit and offset.
	CountEntries(ctx context.Context, filter *models.EntryFilter) (int64, error)

	// GetEntryByID returns a single entry, or nil when absent.
	GetEntryByID(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error)

	// GetEntryStats returns aggregate statistics over all entries.
	GetEntryStats(ctx context.Context) (*models.EntryStats, error)
}

// ImportController is the slice of the importer the API drives.
// *journal.Importer satisfies it.
type ImportController interface {
	// Run executes one import run. Blocks until the run finishes.
	Run(ctx context.Context, opts journal.RunOptions) (*journal.RunResult, error)

	// Stop cancels a running import.
	Stop() error

	// IsRunning reports whether a run is in progress.
	IsRunning() bool

	// Status returns a snapshot of the current or last run.
	Status() *journal.ProgressSummary

	// History returns the saved run marker for a source, nil when none.
	History(ctx context.Context, sourcePath string) (*journal.RunMarker, error)

	// ClearHistory removes a source's saved run marker.
	ClearHistory(ctx context.Context, sourcePath string) error

	// InspectSource opens a source database and reports its inferred
	// structure without importing.
	InspectSource(ctx context.Context, sourcePath string) (*journal.SourceReport, error)
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket endpoint (this file)
//   - handlers_helpers.go: Shared helper functions
//   - handlers_health.go: Health/monitoring endpoints
//   - handlers_entries.go: Journal entry query endpoints
//   - handlers_import.go: Import lifecycle endpoints
type Handler struct {
	db        EntryReader
	importer  ImportController
	config    *config.Config
	wsHub     *ws.Hub
	startTime time.Time
	perfMon   *middleware.PerformanceMonitor
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - db: Entry store for journal queries
//   - importer: Import orchestrator for run management
//   - cfg: Application configuration
//   - wsHub: WebSocket hub for real-time broadcasts (nil disables /ws)
//
// The handler initializes with a performance monitor tracking the last
// 1000 requests and a start time for uptime calculations.
//
// Example:
//
//	handler := api.NewHandler(db, importer, cfg, wsHub)
//	router := api.NewRouter(handler)
//	http.ListenAndServe(":8088", router.SetupChi())
func NewHandler(db EntryReader, importer ImportController, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		db:        db,
		importer:  importer,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
		perfMon:   middleware.NewPerformanceMonitor(1000), // Keep last 1000 requests
	}
}

// GetPerformanceStats returns performance monitoring statistics
func (h *Handler) GetPerformanceStats() []middleware.EndpointStats {
	if h.perfMon != nil {
		return h.perfMon.GetStats()
	}
	return nil
}

// getUpgrader creates a WebSocket upgrader with proper origin checking and timeouts.
// HandshakeTimeout protects against slow client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// If no origin header, REJECT - legitimate browser WebSockets ALWAYS include Origin
	// Only non-browser clients (curl, scripts, mobile apps) omit Origin header
	// Allowing empty Origin bypasses CORS entirely - security vulnerability
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// If config is nil, allow by default (fail open for tests/development)
	if h.config == nil {
		return true
	}

	// Check against allowed origins from config
	for _, allowedOrigin := range h.config.API.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	// Origin not in allowed list - sanitize origin to prevent log injection
	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers the client with the
// hub for import progress broadcasts.
//
// Method: GET
// Path: /api/v1/ws
//
// Response:
//   - 101: Connection upgraded
//   - 503: WebSocket hub not initialized
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	// Check if WebSocket hub is available
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
