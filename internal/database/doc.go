// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

// Package database provides the DuckDB-backed canonical entry store.
//
// The store holds normalized journal entries in a single journal_entries
// table with a unique index on (timestamp, content) mirroring the
// importer's deduplication key. Batch inserts run inside a transaction so
// an import run lands atomically: either every staged entry commits or
// none do.
//
// Reads go through filterable query methods (QueryEntries, CountEntries,
// GetEntryStats) whose WHERE clauses are built from typed filters with
// parameterized arguments only.
//
// DuckDB is an embedded engine, so the DB value owns the only connection
// pool in the process. Close() checkpoints the WAL before closing to keep
// restarts clean.
package database
