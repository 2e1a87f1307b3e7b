// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package models

import "time"

// EntryFilter narrows entry store queries. Nil/zero fields are ignored.
// The store layer translates non-zero fields into WHERE clauses; the
// API layer populates it from query parameters after validation.
type EntryFilter struct {
	Mood     *MoodLevel
	Activity *ActivityType
	Category *VisualizationCategory

	// Inclusive timestamp window.
	Since *time.Time
	Until *time.Time

	// HasLocation filters entries with (true) or without (false) a
	// coordinate pair.
	HasLocation *bool

	// Search matches a case-insensitive substring of the content.
	Search string

	Limit  int
	Offset int
}

// EntryStats aggregates the persisted entry population for the stats
// endpoint and the CLI run summary.
type EntryStats struct {
	TotalEntries   int64      `json:"total_entries"`
	FirstTimestamp *time.Time `json:"first_timestamp,omitempty"`
	LastTimestamp  *time.Time `json:"last_timestamp,omitempty"`
	WithLocation   int64      `json:"with_location"`

	ByMood     map[string]int64 `json:"by_mood"`
	ByActivity map[string]int64 `json:"by_activity"`
	ByCategory map[string]int64 `json:"by_category"`
}
