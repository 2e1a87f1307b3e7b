// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/metrics"
	"github.com/mvellano/constellarium/internal/models"
)

// EntryKey identifies a persisted entry by its deduplication key.
type EntryKey struct {
	Timestamp time.Time
	Content   string
}

// entryColumns is the canonical column list shared by reads and writes.
const entryColumns = `id, timestamp, content, latitude, longitude, tags,
	mood, activity, category, placement_x, placement_y, placement_z`

// InsertEntries writes a batch of canonical entries inside a single
// transaction: either every entry lands or none do. Entries already
// present (same timestamp and content) are skipped via the unique index
// and counted as duplicates.
func (db *DB) InsertEntries(ctx context.Context, entries []*models.JournalEntry) (inserted, duplicates int, err error) {
	if len(entries) == 0 {
		return 0, 0, nil
	}

	start := time.Now()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	query := `INSERT INTO journal_entries (` + entryColumns + `
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "insert statement")

	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}

		tags, err := json.Marshal(entry.Tags)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to encode tags for entry %s: %w", entry.ID, err)
		}
		if entry.Tags == nil {
			tags = []byte("[]")
		}

		res, err := stmt.ExecContext(ctx,
			entry.ID,
			entry.Timestamp.UTC(),
			entry.Content,
			nullableFloat(entry.Latitude),
			nullableFloat(entry.Longitude),
			string(tags),
			string(entry.Mood),
			string(entry.Activity),
			string(entry.Category),
			entry.Placement.X,
			entry.Placement.Y,
			entry.Placement.Z,
		)
		if err != nil {
			return 0, 0, fmt.Errorf("failed to insert entry %s: %w", entry.ID, err)
		}

		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return 0, 0, fmt.Errorf("failed to read rows affected: %w", err)
		}
		if rowsAffected > 0 {
			inserted++
		} else {
			duplicates++
			logging.Debug().
				Time("timestamp", entry.Timestamp).
				Msg("Duplicate entry skipped by store")
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	metrics.RecordBatchInsert(time.Since(start), len(entries))

	logging.Debug().
		Int("inserted", inserted).
		Int("duplicates", duplicates).
		Int("total", len(entries)).
		Msg("Entry batch committed")

	return inserted, duplicates, nil
}

// EntryKeys returns the deduplication key of every persisted entry.
// The importer preloads these so staged rows can be checked against
// prior runs without round-tripping per row.
func (db *DB) EntryKeys(ctx context.Context) ([]EntryKey, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT timestamp, content FROM journal_entries`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry keys: %w", err)
	}
	defer rows.Close()

	var keys []EntryKey
	for rows.Next() {
		var k EntryKey
		if err := rows.Scan(&k.Timestamp, &k.Content); err != nil {
			return nil, fmt.Errorf("failed to scan entry key: %w", err)
		}
		k.Timestamp = k.Timestamp.UTC()
		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry keys: %w", err)
	}

	return keys, nil
}

// QueryEntries retrieves entries matching the filter, newest first.
// A zero filter limit means no limit.
func (db *DB) QueryEntries(ctx context.Context, filter *models.EntryFilter) ([]*models.JournalEntry, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", time.Since(start)) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + entryColumns + ` FROM journal_entries`

	whereClauses, args := buildFilterConditions(filter)
	if len(whereClauses) > 0 {
		query += " WHERE " + joinConditions(whereClauses)
	}
	query += " ORDER BY timestamp DESC"

	if filter != nil && filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.JournalEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}

	return entries, nil
}

// CountEntries returns the number of entries matching the filter,
// ignoring limit and offset.
func (db *DB) CountEntries(ctx context.Context, filter *models.EntryFilter) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT COUNT(*) FROM journal_entries`

	whereClauses, args := buildFilterConditions(filter)
	if len(whereClauses) > 0 {
		query += " WHERE " + joinConditions(whereClauses)
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	return count, nil
}

// GetEntryByID retrieves a single entry.
// Returns (nil, nil) when no entry has the given ID.
func (db *DB) GetEntryByID(ctx context.Context, id uuid.UUID) (*models.JournalEntry, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE id = ?`

	row := db.conn.QueryRowContext(ctx, query, id)
	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return entry, nil
}

// GetEntryStats returns store-wide totals and group-by counts.
func (db *DB) GetEntryStats(ctx context.Context) (*models.EntryStats, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("stats", time.Since(start)) }()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stats := &models.EntryStats{
		ByMood:     make(map[string]int64),
		ByActivity: make(map[string]int64),
		ByCategory: make(map[string]int64),
	}

	var first, last sql.NullTime
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*),
			MIN(timestamp),
			MAX(timestamp),
			COUNT(*) FILTER (WHERE latitude IS NOT NULL AND longitude IS NOT NULL)
		FROM journal_entries`).
		Scan(&stats.TotalEntries, &first, &last, &stats.WithLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to query entry totals: %w", err)
	}

	if first.Valid {
		t := first.Time.UTC()
		stats.FirstTimestamp = &t
	}
	if last.Valid {
		t := last.Time.UTC()
		stats.LastTimestamp = &t
	}

	for _, group := range []struct {
		column string
		counts map[string]int64
	}{
		{"mood", stats.ByMood},
		{"activity", stats.ByActivity},
		{"category", stats.ByCategory},
	} {
		if err := db.groupCounts(ctx, group.column, group.counts); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

// groupCounts fills counts with per-value totals for a low-cardinality
// enumerated column. The column name comes from a fixed internal list,
// never from user input.
func (db *DB) groupCounts(ctx context.Context, column string, counts map[string]int64) error {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM journal_entries GROUP BY %s`, column, column)

	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %s counts: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var value string
		var count int64
		if err := rows.Scan(&value, &count); err != nil {
			return fmt.Errorf("failed to scan %s count: %w", column, err)
		}
		counts[value] = count
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s counts: %w", column, err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanEntry.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry reads one entry row into a model.
func scanEntry(row rowScanner) (*models.JournalEntry, error) {
	var (
		entry    models.JournalEntry
		lat, lng sql.NullFloat64
		tagsJSON string
	)

	err := row.Scan(
		&entry.ID,
		&entry.Timestamp,
		&entry.Content,
		&lat,
		&lng,
		&tagsJSON,
		&entry.Mood,
		&entry.Activity,
		&entry.Category,
		&entry.Placement.X,
		&entry.Placement.Y,
		&entry.Placement.Z,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Timestamp = entry.Timestamp.UTC()

	if lat.Valid {
		entry.Latitude = &lat.Float64
	}
	if lng.Valid {
		entry.Longitude = &lng.Float64
	}

	var tags []string
	if err := json.Unmarshal([]byte(tagsJSON), &tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags for entry %s: %w", entry.ID, err)
	}
	if len(tags) > 0 {
		entry.Tags = tags
	}

	return &entry, nil
}

// nullableFloat converts an optional float into a driver-friendly value.
func nullableFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
