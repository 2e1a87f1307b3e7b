// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package main is the entry point for the Constellarium application.

Constellarium ingests legacy life-logging SQLite databases whose schemas
are not known in advance. It infers each database's structure, extracts
and normalizes rows into canonical journal entries (mood, activity,
visualization category, spatial placement), deduplicates them, and
persists them into DuckDB for querying through a REST API.

# Application Architecture

The server runs under a Suture v4 supervisor tree:

	RootSupervisor ("constellarium")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocket Hub (live run progress)
	│   └── Import Service (auto-start or on-demand runs)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (REST API + /metrics)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog, bridged to slog for supervisor event logging
 3. Database: DuckDB canonical entry store
 4. Progress store: BadgerDB run markers for incremental re-import
 5. Supervisor tree, WebSocket hub, importer
 6. HTTP API: Chi router with auth, rate limiting, and metrics

# Commands

	constellarium                  Run the supervised server (same as serve)
	constellarium serve            Run the supervised server
	constellarium import [source]  One-shot import run with console progress
	constellarium inspect <source> Schema report without importing

Global flags: --config, --log-level, --log-format.

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest
priority wins):
  - Environment variables (CONSTELLARIUM_*)
  - Config file (config.yaml, or the --config flag)
  - Built-in defaults

Frequently used variables:
  - CONSTELLARIUM_SOURCE_DB_PATH: legacy SQLite database to import
  - CONSTELLARIUM_IMPORT_AUTO_START: run an import at server startup
  - CONSTELLARIUM_DUCKDB_PATH: canonical entry store location
  - CONSTELLARIUM_API_AUTH_TOKEN: static bearer token for /api/v1

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (10s timeout)
  - Stops any running import at a row boundary
  - Closes the progress store and database

# Example Usage

Serve with an auto-started incremental import:

	export CONSTELLARIUM_SOURCE_DB_PATH=/data/legacy/lifelog.db
	export CONSTELLARIUM_IMPORT_AUTO_START=true
	export CONSTELLARIUM_IMPORT_INCREMENTAL=true
	./constellarium

One-shot import with console progress:

	./constellarium import /data/legacy/lifelog.db --dry-run
	./constellarium import /data/legacy/lifelog.db

Inspect a database before importing:

	./constellarium inspect /data/legacy/lifelog.db --json
*/
package main
