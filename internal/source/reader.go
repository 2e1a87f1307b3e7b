// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package source

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// SQLite driver, registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"

	"github.com/mvellano/constellarium/internal/logging"
)

// Reader is a read-only handle on a legacy source database. A Reader is
// owned by a single import run and must be closed on every exit path.
// It is not safe for concurrent use; the pipeline is sequential by
// design.
type Reader struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite file at path read-only and verifies it is
// reachable. Returns an error wrapping ErrDatabaseOpen if the file
// cannot be opened or is not a SQLite database.
func Open(ctx context.Context, path string) (*Reader, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDatabaseOpen)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseOpen, path, err)
	}

	// One connection keeps the handle's lifetime identical to the
	// run's and preserves sqlite_master ordering across queries.
	db.SetMaxOpenConns(1)

	// sql.Open defers the real open; ping so a missing or corrupt file
	// surfaces here instead of at the first query.
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseOpen, path, err)
	}

	logging.Debug().Str("path", path).Msg("source database opened")

	return &Reader{db: db, path: path}, nil
}

// Path returns the source file path the reader was opened with.
func (r *Reader) Path() string {
	return r.path
}

// Close releases the read handle. Safe to call on every exit path.
func (r *Reader) Close() error {
	if r.db == nil {
		return nil
	}
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("failed to close source database: %w", err)
	}
	r.db = nil
	return nil
}

// quoteIdent quotes an identifier for interpolation into SQL. Table
// names come out of sqlite_master, not user input, but quoting keeps
// reserved words and exotic names working.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
