// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package source

import "errors"

// Fatal source errors. Any of these aborts the whole import run; the
// caller must treat the import as not having happened.
var (
	// ErrDatabaseOpen indicates the source file could not be opened or
	// is not a readable SQLite database.
	ErrDatabaseOpen = errors.New("source database cannot be opened")

	// ErrNoEntriesTable indicates no table in the source database could
	// be selected as the entries table.
	ErrNoEntriesTable = errors.New("no entries table found in source database")

	// ErrQueryFailed indicates the count or read query against the
	// selected entries table could not be prepared or executed.
	ErrQueryFailed = errors.New("source query failed")
)
