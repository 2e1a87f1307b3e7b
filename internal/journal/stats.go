// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"time"
)

// ImportStats holds the live counters of one import run. The Importer
// owns the authoritative copy behind its mutex; everything handed out
// is a value copy.
type ImportStats struct {
	// SourcePath is the source database this run reads.
	SourcePath string

	// TotalRows is the number of rows in the run's scan window.
	TotalRows int64

	// Processed is the number of rows read so far.
	Processed int64

	// Imported is the number of entries accepted into the run buffer,
	// replaced by the store's committed count after the flush.
	Imported int64

	// Duplicates is the number of rows discarded for matching an
	// existing entry's content and timestamp.
	Duplicates int64

	// Errors is the number of rows skipped for extraction or
	// validation failures.
	Errors int64

	// LastRowID is the largest source rowid seen, 0 when the source
	// table has none.
	LastRowID int64

	// StartTime is when the run started.
	StartTime time.Time

	// EndTime is when the run finished (zero while running).
	EndTime time.Time

	// DryRun indicates the run classified and counted but never wrote.
	DryRun bool

	// Incremental indicates the scan was restricted to rows past the
	// source's saved marker.
	Incremental bool
}

// Duration returns the elapsed run time, live for an unfinished run.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the scan progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRows == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRows) * 100
}

// RowsPerSecond returns the scan rate.
func (s *ImportStats) RowsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// ProgressSummary is the wire form of a stats snapshot, served by the
// status endpoint and broadcast over the progress feed.
type ProgressSummary struct {
	Status          string    `json:"status"`
	SourcePath      string    `json:"source_path,omitempty"`
	Progress        float64   `json:"progress"`
	TotalRows       int64     `json:"total_rows"`
	Processed       int64     `json:"processed"`
	Imported        int64     `json:"imported"`
	Duplicates      int64     `json:"duplicates"`
	Errors          int64     `json:"errors"`
	RowsPerSec      float64   `json:"rows_per_second"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
	EstimatedRemain float64   `json:"estimated_remaining_seconds"`
	StartTime       time.Time `json:"start_time,omitempty"`
	LastRowID       int64     `json:"last_row_id"`
	DryRun          bool      `json:"dry_run"`
	Incremental     bool      `json:"incremental"`
}

// ToSummary converts a stats snapshot to its wire form.
func (s *ImportStats) ToSummary(running bool) *ProgressSummary {
	summary := &ProgressSummary{
		SourcePath:     s.SourcePath,
		Progress:       s.Progress(),
		TotalRows:      s.TotalRows,
		Processed:      s.Processed,
		Imported:       s.Imported,
		Duplicates:     s.Duplicates,
		Errors:         s.Errors,
		RowsPerSec:     s.RowsPerSecond(),
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		LastRowID:      s.LastRowID,
		DryRun:         s.DryRun,
		Incremental:    s.Incremental,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.StartTime.IsZero():
		summary.Status = "idle"
	default:
		summary.Status = "completed"
	}

	if running && summary.RowsPerSec > 0 {
		remaining := s.TotalRows - s.Processed
		if remaining > 0 {
			summary.EstimatedRemain = float64(remaining) / summary.RowsPerSec
		}
	}

	return summary
}

// RunResult is the final report of one import run.
type RunResult struct {
	SourcePath        string    `json:"source_path"`
	TotalRows         int64     `json:"total_rows"`
	RowsProcessed     int64     `json:"rows_processed"`
	EntriesImported   int64     `json:"entries_imported"`
	DuplicatesSkipped int64     `json:"duplicates_skipped"`
	ErrorCount        int64     `json:"error_count"`
	Errors            []string  `json:"errors,omitempty"`
	LastRowID         int64     `json:"last_row_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	DryRun            bool      `json:"dry_run"`
	Incremental       bool      `json:"incremental"`
}

// Duration returns the run's wall-clock time.
func (r *RunResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
