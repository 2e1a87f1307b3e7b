// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package source reads legacy life-logging SQLite databases whose schemas
are not known in advance.

The package has two halves. The schema inspector enumerates the tables
in the file, heuristically picks the one most likely to hold life-log
entries, and introspects its columns with their original declared types.
The row extractor then streams every row of that table, mapping columns
onto a fixed intermediate record through a case-insensitive alias table;
columns no alias recognizes are preserved verbatim in an open metadata
map instead of being dropped.

Extraction is deliberately tolerant: a row whose values cannot be
coerced is logged with its 1-based ordinal and skipped, and the run
continues. Only structural failures abort a run: the file cannot be
opened (ErrDatabaseOpen), no table can be selected (ErrNoEntriesTable),
or the count/read queries fail (ErrQueryFailed).

Access goes through mattn/go-sqlite3 rather than an analytical engine
so the inspector sees the catalog exactly as the legacy application
wrote it: sqlite_master rows, PRAGMA table_info declared types, SQLite
type affinities and all. The database is opened read-only and is never
mutated.
*/
package source
