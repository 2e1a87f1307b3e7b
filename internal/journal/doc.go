// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package journal drives the import pipeline: it reads legacy records
from a source database, classifies and validates them into canonical
journal entries, deduplicates against the entry store, and flushes the
accepted entries in one terminal transaction.

# Pipeline

One run is strictly sequential:

	inspect schema -> extract rows -> normalize -> build -> dedup -> flush

Dedup correctness depends on that order; acceptance decisions form a
total order, so nothing in this package fans out work. Cancellation is
cooperative and checked at batch boundaries. A canceled or failed run
performs no flush and leaves the store exactly as it found it.

# Run lifecycle

An Importer executes at most one run at a time; concurrent Run calls
fail fast with ErrAlreadyRunning. Live counters are readable at any
time through Status. After a successful flush the progress tracker
records a per-source marker (last source rowid plus run counters) which
later incremental runs use to skip already-scanned rows. Markers only
advance on committed flushes.

# Outcomes per row

Each source row ends in exactly one of four buckets: imported,
duplicate (same content and timestamp as an existing entry; not an
error), row error (extraction or validation failure, recorded with the
row's 1-based ordinal), or skipped by the incremental window.
*/
package journal
