// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes.
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// tableCreationQueries returns the table creation SQL statements.
func tableCreationQueries() []string {
	return []string{
		// Canonical journal entries. Tags are stored as a JSON array in
		// TEXT; placement is flattened into three DOUBLE columns.
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id UUID PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			content TEXT NOT NULL,
			latitude DOUBLE,
			longitude DOUBLE,
			tags TEXT NOT NULL DEFAULT '[]',
			mood TEXT NOT NULL,
			activity TEXT NOT NULL,
			category TEXT NOT NULL,
			placement_x DOUBLE NOT NULL,
			placement_y DOUBLE NOT NULL,
			placement_z DOUBLE NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// Mirrors the importer's deduplication key so re-imports cannot
		// double-insert even across processes.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_entries_dedup
			ON journal_entries(timestamp, content)`,

		`CREATE INDEX IF NOT EXISTS idx_entries_timestamp
			ON journal_entries(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_mood
			ON journal_entries(mood)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_activity
			ON journal_entries(activity)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_category
			ON journal_entries(category)`,
	}
}
