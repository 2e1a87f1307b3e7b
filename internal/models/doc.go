// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

/*
Package models defines the data structures shared across Constellarium.

The central type is JournalEntry, the canonical record produced by the
import pipeline and persisted in the entry store. Every semantic field on
a JournalEntry is a closed enumeration: unclassifiable source values map
to explicit default members (MoodNeutral, ActivityUnknown), never to an
"unrecognized" marker, so downstream consumers can switch exhaustively.

Model categories:

 1. Canonical entries: JournalEntry, MoodLevel, ActivityType,
    VisualizationCategory, SpatialPlacement
 2. Query types: EntryFilter, EntryStats
 3. API envelope: APIResponse, Metadata, APIError, PaginationInfo

Source-side types (the raw table schema and the loosely-typed record
extracted from a legacy row) live in internal/source, not here: they are
transient artifacts of a single run and are never shared or persisted.
*/
package models
