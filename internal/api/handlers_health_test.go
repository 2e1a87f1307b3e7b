// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/mvellano/constellarium/internal/models"
)

// ===================================================================================================
// Health Tests
// ===================================================================================================

func TestHealth(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		handler := testHandler(&fakeStore{}, newFakeImporter())

		rec := httptest.NewRecorder()
		handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		data, _ := json.Marshal(envelope.Data) //nolint:errcheck // round-trip of decoded envelope
		var health models.HealthStatus
		if err := json.Unmarshal(data, &health); err != nil {
			t.Fatalf("Failed to decode health status: %v", err)
		}

		if health.Status != "healthy" {
			t.Errorf("Expected healthy, got %q", health.Status)
		}
		if !health.DatabaseConnected {
			t.Error("Expected database_connected=true")
		}
		if health.ImportRunning {
			t.Error("Expected import_running=false")
		}
		if health.Version == "" {
			t.Error("Expected a version string")
		}
	})

	t.Run("degraded when store is down", func(t *testing.T) {
		store := &fakeStore{pingErr: errors.New("connection refused")}
		handler := testHandler(store, newFakeImporter())

		rec := httptest.NewRecorder()
		handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200 even when degraded, got %d", rec.Code)
		}

		envelope := decodeEnvelope(t, rec)
		data, _ := json.Marshal(envelope.Data) //nolint:errcheck // round-trip of decoded envelope
		var health models.HealthStatus
		if err := json.Unmarshal(data, &health); err != nil {
			t.Fatalf("Failed to decode health status: %v", err)
		}

		if health.Status != "degraded" {
			t.Errorf("Expected degraded, got %q", health.Status)
		}
		if health.DatabaseConnected {
			t.Error("Expected database_connected=false")
		}
	})

	t.Run("reports running import", func(t *testing.T) {
		importer := newFakeImporter()
		importer.setRunning(true)
		handler := testHandler(&fakeStore{}, importer)

		rec := httptest.NewRecorder()
		handler.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		envelope := decodeEnvelope(t, rec)
		data, _ := json.Marshal(envelope.Data) //nolint:errcheck // round-trip of decoded envelope
		var health models.HealthStatus
		if err := json.Unmarshal(data, &health); err != nil {
			t.Fatalf("Failed to decode health status: %v", err)
		}

		if !health.ImportRunning {
			t.Error("Expected import_running=true")
		}
	})
}

// ===================================================================================================
// Liveness and Readiness Tests
// ===================================================================================================

func TestHealthLive(t *testing.T) {
	handler := NewHandler(nil, nil, testConfig(), nil)

	rec := httptest.NewRecorder()
	handler.HealthLive(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 with no dependencies wired, got %d", rec.Code)
	}

	envelope := decodeEnvelope(t, rec)
	payload, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map payload, got %T", envelope.Data)
	}
	if alive, _ := payload["alive"].(bool); !alive {
		t.Error("Expected alive=true")
	}
}

func TestHealthReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		handler := testHandler(&fakeStore{}, newFakeImporter())

		rec := httptest.NewRecorder()
		handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
		}

		envelope := decodeEnvelope(t, rec)
		if envelope.Status != "ready" {
			t.Errorf("Expected ready envelope, got %q", envelope.Status)
		}
	})

	t.Run("store down", func(t *testing.T) {
		store := &fakeStore{pingErr: errors.New("connection refused")}
		handler := testHandler(store, newFakeImporter())

		rec := httptest.NewRecorder()
		handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d", rec.Code)
		}

		envelope := decodeEnvelope(t, rec)
		if envelope.Status != "not_ready" {
			t.Errorf("Expected not_ready envelope, got %q", envelope.Status)
		}
	})

	t.Run("no store wired", func(t *testing.T) {
		handler := NewHandler(nil, newFakeImporter(), testConfig(), nil)

		rec := httptest.NewRecorder()
		handler.HealthReady(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503 with no store, got %d", rec.Code)
		}
	})
}
