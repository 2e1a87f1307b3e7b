// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/mvellano/constellarium/internal/logging"
)

// Column is one column of the selected entries table, with the type
// string exactly as declared by the legacy application.
type Column struct {
	Name         string `json:"name"`
	DeclaredType string `json:"declared_type"`
}

// TableSchema is the result of one schema inspection. It is built once
// per run, never mutated afterwards, and discarded when the run ends.
// EntriesTable is empty when no table could be selected; turning that
// into a fatal error is the extractor's job, so a pure inspection (the
// validate endpoint, the inspect command) can still report the tables
// it saw.
type TableSchema struct {
	Tables       []string `json:"tables"`
	EntriesTable string   `json:"entries_table,omitempty"`
	Columns      []Column `json:"columns,omitempty"`
}

// entriesTableCandidates are tried first, in this order, against every
// table name case-insensitively.
var entriesTableCandidates = []string{
	"entries",
	"journal_entries",
	"logs",
	"life_entries",
	"diary_entries",
	"activities",
}

// internalTables are framework artifacts that never hold user entries.
// Prefix checks cover sqlite_* and underscore-prefixed tables; these
// names show up verbatim in Android and Room database files.
var internalTables = map[string]bool{
	"android_metadata":  true,
	"room_master_table": true,
	"schema_migrations": true,
}

// Inspect enumerates the database's tables, selects the most likely
// entries table and introspects its columns in definition order.
func (r *Reader) Inspect(ctx context.Context) (*TableSchema, error) {
	tables, err := r.listTables(ctx)
	if err != nil {
		return nil, err
	}

	schema := &TableSchema{Tables: tables}
	schema.EntriesTable = selectEntriesTable(tables)
	if schema.EntriesTable == "" {
		logging.Warn().
			Str("path", r.path).
			Int("tables", len(tables)).
			Msg("no entries table selected")
		return schema, nil
	}

	schema.Columns, err = r.tableColumns(ctx, schema.EntriesTable)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("path", r.path).
		Str("entries_table", schema.EntriesTable).
		Int("tables", len(tables)).
		Int("columns", len(schema.Columns)).
		Msg("source schema inspected")

	return schema, nil
}

// listTables returns all table names in catalog order. The order
// matters: the substring and fallback selection tiers take the first
// match in this order.
func (r *Reader) listTables(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("%w: listing tables: %v", ErrDatabaseOpen, err)
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scanning table name: %v", ErrDatabaseOpen, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing tables: %v", ErrDatabaseOpen, err)
	}
	return tables, nil
}

// tableColumns introspects a table's columns via PRAGMA table_info,
// preserving definition order and the declared type strings.
func (r *Reader) tableColumns(ctx context.Context, table string) ([]Column, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(table)))
	if err != nil {
		return nil, fmt.Errorf("%w: introspecting %s: %v", ErrDatabaseOpen, table, err)
	}
	defer func() { _ = rows.Close() }()

	var cols []Column
	for rows.Next() {
		var (
			cid          int
			name         string
			declaredType string
			notNull      int
			dfltValue    interface{}
			pk           int
		)
		if err := rows.Scan(&cid, &name, &declaredType, &notNull, &dfltValue, &pk); err != nil {
			return nil, fmt.Errorf("%w: scanning column info for %s: %v", ErrDatabaseOpen, table, err)
		}
		cols = append(cols, Column{Name: name, DeclaredType: declaredType})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: introspecting %s: %v", ErrDatabaseOpen, table, err)
	}
	return cols, nil
}

// selectEntriesTable picks the entries table by priority: exact
// candidate names first (candidate order wins over table order), then
// the first table containing "entry" or "log", then the first
// non-internal table. Empty means nothing qualified.
func selectEntriesTable(tables []string) string {
	for _, candidate := range entriesTableCandidates {
		for _, table := range tables {
			if strings.EqualFold(table, candidate) {
				return table
			}
		}
	}

	for _, table := range tables {
		lower := strings.ToLower(table)
		if strings.Contains(lower, "entry") || strings.Contains(lower, "log") {
			return table
		}
	}

	for _, table := range tables {
		if !isInternalTable(table) {
			return table
		}
	}

	return ""
}

// isInternalTable reports whether a table belongs to SQLite or an app
// framework rather than the user's data.
func isInternalTable(name string) bool {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "sqlite_") || strings.HasPrefix(lower, "_") {
		return true
	}
	return internalTables[lower]
}
