// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mvellano/constellarium/internal/logging"
)

// DefaultBatchSize is the extraction checkpoint granularity: every this
// many rows the loop checks for cancellation and yields.
const DefaultBatchSize = 100

// rowIDColumn aliases SQLite's _rowid_ in the read query so it cannot
// collide with a user column named "rowid".
const rowIDColumn = "__source_rowid"

// LegacyRecord is the loosely-typed record extracted from one source
// row, before semantic normalization. It is owned exclusively by the
// pipeline stage currently holding it and is never persisted.
type LegacyRecord struct {
	// Ordinal is the 1-based position of the row within this run's
	// scan, used in error messages.
	Ordinal int64

	// RowID is the source table's rowid, 0 when the table has none.
	RowID int64

	OriginalID string
	Content    string

	// Timestamp defaults to the extraction time when the source row
	// carries none.
	Timestamp time.Time

	// Coordinates follow the legacy 0-as-absent convention: a literal
	// 0 from the source is treated as no value.
	Latitude  *float64
	Longitude *float64

	Mood     string
	Activity string
	Tags     []string

	// Metadata holds every column no alias recognized, keyed by the
	// lower-cased column name, values rendered as strings.
	Metadata map[string]string
}

// RowError describes a row that could not be extracted. The run
// continues past it.
type RowError struct {
	Ordinal int64
	Err     error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Ordinal, e.Err)
}

// ProgressFunc receives (processed, total) after every row. It must
// not block: implementations hand off to buffered channels or drop
// updates rather than stall the extraction loop.
type ProgressFunc func(processed, total int64)

// ExtractOptions tunes one extraction pass.
type ExtractOptions struct {
	// SinceRowID restricts the scan to rows with a larger rowid.
	// Ignored (full scan) when the table has no rowid.
	SinceRowID int64

	// BatchSize is the cancellation/yield checkpoint granularity.
	// Defaults to DefaultBatchSize.
	BatchSize int

	Progress ProgressFunc
}

// ExtractResult summarizes one extraction pass.
type ExtractResult struct {
	Total       int64
	Processed   int64
	LastRowID   int64
	Incremental bool
	RowErrors   []RowError
}

// fieldKind identifies which LegacyRecord field a source column feeds.
type fieldKind int

const (
	fieldID fieldKind = iota + 1
	fieldContent
	fieldTimestamp
	fieldLatitude
	fieldLongitude
	fieldMood
	fieldActivity
	fieldTags
)

// columnAliases maps lower-cased source column names onto record
// fields. Unlisted columns fall through to the metadata map.
var columnAliases = map[string]fieldKind{
	"id":       fieldID,
	"entry_id": fieldID,
	"_id":      fieldID,

	"content":     fieldContent,
	"text":        fieldContent,
	"description": fieldContent,
	"note":        fieldContent,
	"entry":       fieldContent,

	"timestamp":  fieldTimestamp,
	"date":       fieldTimestamp,
	"created_at": fieldTimestamp,
	"time":       fieldTimestamp,

	"latitude": fieldLatitude,
	"lat":      fieldLatitude,

	"longitude": fieldLongitude,
	"lng":       fieldLongitude,
	"lon":       fieldLongitude,

	"mood":    fieldMood,
	"emotion": fieldMood,
	"feeling": fieldMood,

	"activity": fieldActivity,
	"category": fieldActivity,
	"type":     fieldActivity,
	"action":   fieldActivity,

	"tags":   fieldTags,
	"labels": fieldTags,
}

// Extract streams every row of the schema's entries table through
// handle, in rowid order when the table has one. Rows whose values
// cannot be coerced are recorded in the result's RowErrors and skipped;
// a non-nil error from handle aborts the pass immediately.
//
// Returns ErrNoEntriesTable when the schema selected no table and
// ErrQueryFailed when the count or read queries cannot run.
func (r *Reader) Extract(ctx context.Context, schema *TableSchema, opts ExtractOptions, handle func(*LegacyRecord) error) (*ExtractResult, error) {
	if schema == nil || schema.EntriesTable == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoEntriesTable, r.path)
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	table := quoteIdent(schema.EntriesTable)
	hasRowID := r.probeRowID(ctx, table)
	incremental := opts.SinceRowID > 0 && hasRowID

	total, err := r.countRows(ctx, table, incremental, opts.SinceRowID)
	if err != nil {
		return nil, fmt.Errorf("%w: counting rows in %s: %v", ErrQueryFailed, schema.EntriesTable, err)
	}

	rows, err := r.queryRows(ctx, table, hasRowID, incremental, opts.SinceRowID)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrQueryFailed, schema.EntriesTable, err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns of %s: %v", ErrQueryFailed, schema.EntriesTable, err)
	}

	rowIDIndex := -1
	for i, col := range cols {
		if col == rowIDColumn {
			rowIDIndex = i
			break
		}
	}

	values := make([]interface{}, len(cols))
	scanArgs := make([]interface{}, len(cols))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	result := &ExtractResult{Total: total, Incremental: incremental}
	var ordinal int64

	for rows.Next() {
		ordinal++
		result.Processed = ordinal

		if err := rows.Scan(scanArgs...); err != nil {
			rowErr := RowError{Ordinal: ordinal, Err: fmt.Errorf("unreadable row: %v", err)}
			result.RowErrors = append(result.RowErrors, rowErr)
			logging.Warn().Int64("row", ordinal).Err(err).Msg("skipping unreadable source row")
			r.afterRow(opts, ordinal, total)
			if err := checkpoint(ctx, ordinal, opts.BatchSize); err != nil {
				return nil, err
			}
			continue
		}

		if rowIDIndex >= 0 {
			if id := asInt64(values[rowIDIndex]); id > result.LastRowID {
				result.LastRowID = id
			}
		}

		rec, err := buildRecord(cols, values, ordinal)
		if err != nil {
			rowErr := RowError{Ordinal: ordinal, Err: err}
			result.RowErrors = append(result.RowErrors, rowErr)
			logging.Warn().Int64("row", ordinal).Err(err).Msg("skipping malformed source row")
		} else if err := handle(rec); err != nil {
			return nil, err
		}

		r.afterRow(opts, ordinal, total)
		if err := checkpoint(ctx, ordinal, opts.BatchSize); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s: %v", ErrQueryFailed, schema.EntriesTable, err)
	}

	return result, nil
}

// CountRows returns the number of rows in the schema's entries table.
// Used by the validate surface; Extract runs its own count so the
// total matches the scan window.
func (r *Reader) CountRows(ctx context.Context, schema *TableSchema) (int64, error) {
	if schema == nil || schema.EntriesTable == "" {
		return 0, fmt.Errorf("%w: %s", ErrNoEntriesTable, r.path)
	}
	total, err := r.countRows(ctx, quoteIdent(schema.EntriesTable), false, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: counting rows in %s: %v", ErrQueryFailed, schema.EntriesTable, err)
	}
	return total, nil
}

func (r *Reader) afterRow(opts ExtractOptions, processed, total int64) {
	if opts.Progress != nil {
		opts.Progress(processed, total)
	}
}

// checkpoint is the cooperative cancellation/yield point, hit every
// batch of rows.
func checkpoint(ctx context.Context, ordinal int64, batchSize int) error {
	if ordinal%int64(batchSize) != 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// probeRowID reports whether the table exposes SQLite's implicit
// rowid. Tables declared WITHOUT ROWID do not; those are read with a
// plain full scan.
func (r *Reader) probeRowID(ctx context.Context, table string) bool {
	var id int64
	err := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT _rowid_ FROM %s LIMIT 1`, table)).Scan(&id)
	return err == nil || errors.Is(err, sql.ErrNoRows)
}

func (r *Reader) countRows(ctx context.Context, table string, incremental bool, sinceRowID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)
	args := []interface{}{}
	if incremental {
		query += ` WHERE _rowid_ > ?`
		args = append(args, sinceRowID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Reader) queryRows(ctx context.Context, table string, hasRowID, incremental bool, sinceRowID int64) (*sql.Rows, error) {
	if !hasRowID {
		return r.db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %s`, table))
	}

	query := fmt.Sprintf(`SELECT _rowid_ AS %s, * FROM %s`, rowIDColumn, table)
	args := []interface{}{}
	if incremental {
		query += ` WHERE _rowid_ > ?`
		args = append(args, sinceRowID)
	}
	query += ` ORDER BY _rowid_`

	return r.db.QueryContext(ctx, query, args...)
}

// buildRecord maps one scanned row onto a LegacyRecord through the
// alias table. NULLs leave fields at their defaults; a value that
// cannot be coerced fails the whole row.
func buildRecord(cols []string, values []interface{}, ordinal int64) (*LegacyRecord, error) {
	rec := &LegacyRecord{
		Ordinal:   ordinal,
		Timestamp: time.Now().UTC(),
		Metadata:  make(map[string]string),
	}

	for i, col := range cols {
		lower := strings.ToLower(col)
		if lower == rowIDColumn {
			rec.RowID = asInt64(values[i])
			continue
		}

		v := values[i]
		if v == nil {
			continue
		}

		kind, ok := columnAliases[lower]
		if !ok {
			rec.Metadata[lower] = asString(v)
			continue
		}

		switch kind {
		case fieldID:
			rec.OriginalID = asString(v)
		case fieldContent:
			rec.Content = asString(v)
		case fieldTimestamp:
			ts, err := asTimestamp(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			if !ts.IsZero() {
				rec.Timestamp = ts
			}
		case fieldLatitude:
			f, err := asFloat(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			if f != 0 {
				rec.Latitude = &f
			}
		case fieldLongitude:
			f, err := asFloat(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", col, err)
			}
			if f != 0 {
				rec.Longitude = &f
			}
		case fieldMood:
			rec.Mood = asString(v)
		case fieldActivity:
			rec.Activity = asString(v)
		case fieldTags:
			rec.Tags = splitTags(asString(v))
		}
	}

	return rec, nil
}

// asString renders a driver value as the string the legacy application
// would have shown.
func asString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case bool:
		if t {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(t)
	}
}

// asFloat coerces a driver value to float64. Blank strings mean
// absent and coerce to 0, which the coordinate fields already treat
// as no value.
func asFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case int64:
		return float64(t), nil
	case float64:
		return t, nil
	case string:
		return parseFloat(t)
	case []byte:
		return parseFloat(string(t))
	default:
		return 0, fmt.Errorf("cannot convert %T to a number", v)
	}
}

func parseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as a number", s)
	}
	return f, nil
}

// asTimestamp coerces a driver value to a timestamp. Numeric values
// are Unix epoch seconds; the driver hands over time.Time directly for
// columns it recognized as datetimes. Blank strings mean absent and
// return the zero time.
func asTimestamp(v interface{}) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	case float64:
		return time.Unix(int64(t), 0).UTC(), nil
	case string:
		return parseEpoch(t)
	case []byte:
		return parseEpoch(string(t))
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to a timestamp", v)
	}
}

func parseEpoch(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return time.Unix(int64(f), 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("cannot parse %q as epoch seconds", s)
	}
	return time.Unix(sec, 0).UTC(), nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n
	case []byte:
		n, _ := strconv.ParseInt(strings.TrimSpace(string(t)), 10, 64)
		return n
	default:
		return 0
	}
}

// splitTags splits a comma-separated tag value, trimming each piece.
// Empty pieces survive here; the entry builder drops them.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}
