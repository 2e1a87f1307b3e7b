// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package websocket provides the real-time progress feed for import runs.

This package implements WebSocket support for broadcasting live import
progress snapshots, run completion results, and run failures to connected
frontend clients. It uses the gorilla/websocket library with a hub-client
architecture for efficient message broadcasting.

Key Components:

  - Hub: Central message broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Notifier: Adapts the hub to the importer's run notification interface
  - Message: Typed message structure for different event types

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, handles pings
  - writePump: Writes to WebSocket, sends pongs

Message Types:

The following message types are supported:

  - import_progress: Live snapshot of a running import (processed, imported,
    duplicates, errors, rows per second, estimated time remaining)
  - import_completed: Final result of a finished run
  - import_failed: Run failed or was canceled before the flush
  - ping/pong: Client keepalive

Usage Example - Server:

	import (
	    "net/http"

	    "github.com/mvellano/constellarium/internal/websocket"
	)

	// Create hub
	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	// Hand the importer a notifier backed by the hub
	importer := journal.NewImporter(cfg, store, progress, websocket.NewNotifier(hub))

Usage Example - Client (JavaScript):

	// Connect to WebSocket
	const ws = new WebSocket('ws://localhost:8088/api/v1/ws');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);

	    if (msg.type === 'import_progress') {
	        updateProgressBar(msg.data.progress);
	    }

	    if (msg.type === 'import_completed') {
	        console.log(`Imported ${msg.data.entries_imported} entries`);
	        refreshEntries();
	    }
	};

Connection Lifecycle:

1. Client connects via HTTP upgrade
2. Hub registers client
3. Client starts read/write goroutines
4. Hub broadcasts messages to all clients
5. Client disconnects (network error or explicit close)
6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Slow Clients:

Each client has a buffered send queue (256 messages). Broadcasts never
block: a client whose queue is full is dropped from the hub and its
connection closed, so one stalled consumer cannot delay the import run
or the other clients.

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write message)
  - pongWait: 60 seconds (time allowed to read pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 512 KB (max message size)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/api: WebSocket endpoint handler
  - internal/journal: Import runs that feed the broadcasts
*/
package websocket
