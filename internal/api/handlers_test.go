// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/models"
	ws "github.com/mvellano/constellarium/internal/websocket"
)

// ===================================================================================================
// Shared Test Fakes
// ===================================================================================================

// fakeStore is an in-memory EntryReader for handler tests.
type fakeStore struct {
	mu         sync.Mutex
	entries    []*models.JournalEntry
	total      int64
	stats      *models.EntryStats
	entryByID  *models.JournalEntry
	pingErr    error
	queryErr   error
	countErr   error
	getErr     error
	statsErr   error
	lastFilter *models.EntryFilter
}

func (s *fakeStore) Ping(ctx context.Context) error { return s.pingErr }

func (s *fakeStore) QueryEntries(ctx context.Context, filter *models.EntryFilter) ([]*models.JournalEntry, error) {
	s.mu.Lock()
	s.lastFilter = filter
	s.mu.Unlock()
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	return s.entries, nil
}

func (s *fakeStore) CountEntries(ctx context.Context, filter *models.EntryFilter) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	if s.total > 0 {
		return s.total, nil
	}
	return int64(len(s.entries)), nil
}

func (s *fakeStore) GetEntryByID(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.entryByID, nil
}

func (s *fakeStore) GetEntryStats(ctx context.Context) (*models.EntryStats, error) {
	if s.statsErr != nil {
		return nil, s.statsErr
	}
	if s.stats != nil {
		return s.stats, nil
	}
	return &models.EntryStats{}, nil
}

func (s *fakeStore) filterSeen() *models.EntryFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFilter
}

// fakeImporter is an ImportController for handler tests.
type fakeImporter struct {
	mu         sync.Mutex
	running    bool
	runResult  *journal.RunResult
	runErr     error
	runCalled  chan journal.RunOptions
	stopErr    error
	stopCalled bool
	status     *journal.ProgressSummary
	marker     *journal.RunMarker
	historyErr error
	clearErr   error
	clearedFor string
	report     *journal.SourceReport
	inspectErr error
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{
		runCalled: make(chan journal.RunOptions, 1),
	}
}

func (f *fakeImporter) Run(ctx context.Context, opts journal.RunOptions) (*journal.RunResult, error) {
	f.runCalled <- opts
	if f.runErr != nil {
		return nil, f.runErr
	}
	if f.runResult != nil {
		return f.runResult, nil
	}
	return &journal.RunResult{SourcePath: opts.SourcePath}, nil
}

func (f *fakeImporter) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalled = true
	return f.stopErr
}

func (f *fakeImporter) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func (f *fakeImporter) Status() *journal.ProgressSummary {
	if f.status != nil {
		return f.status
	}
	return &journal.ProgressSummary{Status: "idle"}
}

func (f *fakeImporter) History(ctx context.Context, sourcePath string) (*journal.RunMarker, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.marker, nil
}

func (f *fakeImporter) ClearHistory(ctx context.Context, sourcePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clearedFor = sourcePath
	return f.clearErr
}

func (f *fakeImporter) InspectSource(ctx context.Context, sourcePath string) (*journal.SourceReport, error) {
	if f.inspectErr != nil {
		return nil, f.inspectErr
	}
	if f.report != nil {
		return f.report, nil
	}
	return &journal.SourceReport{SourcePath: sourcePath}, nil
}

func (f *fakeImporter) setRunning(running bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = running
}

func (f *fakeImporter) wasStopCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalled
}

// testConfig returns a config with production-shaped defaults.
func testConfig() *config.Config {
	return &config.Config{
		Import: config.ImportConfig{
			Timeout: time.Minute,
		},
		API: config.APIConfig{
			DefaultPageSize: 50,
			MaxPageSize:     500,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// testHandler builds a Handler with fakes and a permissive config.
func testHandler(store *fakeStore, importer *fakeImporter) *Handler {
	return NewHandler(store, importer, testConfig(), nil)
}

// decodeEnvelope unmarshals a recorded response body into an APIResponse.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) *models.APIResponse {
	t.Helper()
	var envelope models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Failed to decode response envelope: %v", err)
	}
	return &envelope
}

// wantErrorCode asserts the recorded response is an error envelope with the given code.
func wantErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("Expected status %d, got %d (body: %s)", status, rec.Code, rec.Body.String())
	}
	envelope := decodeEnvelope(t, rec)
	if envelope.Status != "error" {
		t.Errorf("Expected error envelope, got status %q", envelope.Status)
	}
	if envelope.Error == nil {
		t.Fatal("Expected error payload, got nil")
	}
	if envelope.Error.Code != code {
		t.Errorf("Expected error code %q, got %q", code, envelope.Error.Code)
	}
}

// ===================================================================================================
// WebSocket Handler Tests
// ===================================================================================================

func TestWebSocket_HubNotInitialized(t *testing.T) {
	handler := testHandler(&fakeStore{}, newFakeImporter())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
	rec := httptest.NewRecorder()
	handler.WebSocket(rec, req)

	wantErrorCode(t, rec, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE")
}

func TestWebSocket_RejectsMissingOrigin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.RunWithContext(ctx) //nolint:errcheck // test hub lifecycle

	handler := NewHandler(&fakeStore{}, newFakeImporter(), testConfig(), hub)
	server := httptest.NewServer(http.HandlerFunc(handler.WebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Expected handshake to fail without Origin header")
	}
	if resp != nil && resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403 handshake rejection, got %d", resp.StatusCode)
	}
}

func TestWebSocket_ConnectAndReceiveBroadcast(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := ws.NewHub()
	go hub.RunWithContext(ctx) //nolint:errcheck // test hub lifecycle

	cfg := testConfig()
	cfg.API.CORSOrigins = []string{"http://journal.local"}
	handler := NewHandler(&fakeStore{}, newFakeImporter(), cfg, hub)

	server := httptest.NewServer(http.HandlerFunc(handler.WebSocket))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	header := http.Header{"Origin": []string{"http://journal.local"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	if err != nil {
		t.Fatalf("Failed to dial WebSocket: %v", err)
	}
	defer conn.Close()

	// Give the hub time to register the client before broadcasting
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.GetClientCount() == 0 {
		t.Fatal("Client never registered with hub")
	}

	hub.BroadcastImportProgress(&journal.ProgressSummary{Status: "running", Processed: 42})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second)) //nolint:errcheck // test deadline
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if !strings.Contains(string(payload), "import_progress") {
		t.Errorf("Expected import_progress message, got %s", payload)
	}
}

func TestCheckWebSocketOrigin(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    bool
	}{
		{
			name:    "missing origin rejected",
			origins: []string{"*"},
			origin:  "",
			want:    false,
		},
		{
			name:    "wildcard allows any origin",
			origins: []string{"*"},
			origin:  "http://anywhere.example",
			want:    true,
		},
		{
			name:    "exact match allowed",
			origins: []string{"http://journal.local"},
			origin:  "http://journal.local",
			want:    true,
		},
		{
			name:    "mismatch rejected",
			origins: []string{"http://journal.local"},
			origin:  "http://evil.example",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.API.CORSOrigins = tt.origins
			handler := NewHandler(&fakeStore{}, newFakeImporter(), cfg, nil)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			if got := handler.checkWebSocketOrigin(req); got != tt.want {
				t.Errorf("checkWebSocketOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetPerformanceStats(t *testing.T) {
	handler := testHandler(&fakeStore{}, newFakeImporter())

	// No requests recorded yet
	if stats := handler.GetPerformanceStats(); len(stats) != 0 {
		t.Errorf("Expected no stats before any request, got %d", len(stats))
	}

	// Route a request through the performance middleware
	wrapped := handler.perfMon.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	wrapped.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

	if stats := handler.GetPerformanceStats(); len(stats) == 0 {
		t.Error("Expected stats after a monitored request")
	}
}
