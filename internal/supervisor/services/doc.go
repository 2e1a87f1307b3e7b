// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package services provides suture.Service wrappers for Constellarium components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (Run, ListenAndServe, wait-for-
trigger) into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation to the Serve pattern
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub with context support
  - Handles client connection cleanup on shutdown
  - Broadcasts shutdown notification to connected clients

Import Service (ImportService):
  - Wraps the journal importer for long-running import runs
  - AutoStart mode runs an import when the service starts
  - On-demand mode waits for API triggers and stops in-flight
    runs at shutdown

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/mvellano/constellarium/internal/supervisor"
	    "github.com/mvellano/constellarium/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, hub *websocket.Hub, importer *journal.Importer) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 30s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 30*time.Second)
	    tree.AddAPIService(httpSvc)

	    // WebSocket hub
	    wsSvc := services.NewWebSocketHubService(hub)
	    tree.AddMessagingService(wsSvc)

	    // Import service (on-demand)
	    importSvc := services.NewImportService(importer, journal.RunOptions{}, false)
	    tree.AddMessagingService(importSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Lifecycle Patterns

The package handles three common lifecycle patterns:

ListenAndServe Pattern:

	type Listener interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    go s.server.ListenAndServe()
	    <-ctx.Done()
	    return s.server.Shutdown(shutdownCtx)
	}

Run Pattern:

	type Runner interface {
	    RunWithContext(ctx context.Context) error // Blocks until canceled
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    return s.component.RunWithContext(ctx)
	}

Wait-for-Trigger Pattern:

	// Component runs on external triggers; the service only holds the
	// supervision slot and stops in-flight work at shutdown:
	func (s *Service) Serve(ctx context.Context) error {
	    <-ctx.Done()
	    if s.component.IsRunning() {
	        s.component.Stop()
	    }
	    return ctx.Err()
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

Example error handling:

	func (s *ImportService) Serve(ctx context.Context) error {
	    result, err := s.importer.Run(ctx, s.opts)
	    if err != nil {
	        if ctx.Err() != nil {
	            return ctx.Err() // Shutdown, not a crash
	        }
	        // Transient error - supervisor should restart
	        return fmt.Errorf("import failed: %w", err)
	    }

	    <-ctx.Done()
	    return ctx.Err()
	}

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "http-server"
	}

Suture uses this for log messages:

	INFO http-server: starting
	INFO http-server: stopped
	ERROR http-server: restarting after failure

# Testing

Services can be tested with mock components:

	type MockServer struct {
	    started  bool
	    shutdown bool
	}

	func (m *MockServer) ListenAndServe() error {
	    m.started = true
	    <-time.After(time.Hour) // Block until shutdown
	    return nil
	}

	func (m *MockServer) Shutdown(ctx context.Context) error {
	    m.shutdown = true
	    return nil
	}

	func TestHTTPService(t *testing.T) {
	    mock := &MockServer{}
	    svc := services.NewHTTPServerService(mock, time.Second)

	    ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	    defer cancel()

	    svc.Serve(ctx)

	    if !mock.started { t.Error("server not started") }
	    if !mock.shutdown { t.Error("server not shutdown") }
	}

# Thread Safety

All service wrappers are safe for concurrent use:
  - Context cancellation is handled atomically
  - Multiple Serve calls are not supported (undefined behavior)

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
  - internal/websocket: WebSocket hub implementation
  - internal/journal: Import pipeline implementation
*/
package services
