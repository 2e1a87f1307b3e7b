// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/database"
	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/metrics"
	"github.com/mvellano/constellarium/internal/models"
	"github.com/mvellano/constellarium/internal/source"
)

// progressInterval throttles progress-feed notifications. Live stats
// behind Status are updated on every row regardless.
const progressInterval = 500 * time.Millisecond

// EntryStore is the slice of the entry store the pipeline needs: the
// dedup keys of everything persisted, and an atomic batch insert.
type EntryStore interface {
	EntryKeys(ctx context.Context) ([]database.EntryKey, error)
	InsertEntries(ctx context.Context, entries []*models.JournalEntry) (inserted, duplicates int, err error)
}

// RunNotifier receives run lifecycle events for the progress feed.
// Implementations must not block; the hub buffers per client.
type RunNotifier interface {
	ImportProgress(summary *ProgressSummary)
	ImportCompleted(result *RunResult)
	ImportFailed(sourcePath string, err error)
}

// RunOptions select the source and mode of one run. An empty
// SourcePath falls back to the importer's configured source.
type RunOptions struct {
	SourcePath  string
	Incremental bool
	DryRun      bool
}

// Importer executes import runs. At most one run is active per
// instance; concurrent Run calls fail fast with ErrAlreadyRunning.
type Importer struct {
	cfg      *config.ImportConfig
	store    EntryStore
	progress ProgressTracker
	notifier RunNotifier

	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// NewImporter creates an importer. The progress tracker and notifier
// are optional: without a tracker, runs are never incremental and no
// history is recorded; without a notifier, nothing is broadcast.
func NewImporter(cfg *config.ImportConfig, store EntryStore, progress ProgressTracker, notifier RunNotifier) *Importer {
	return &Importer{
		cfg:      cfg,
		store:    store,
		progress: progress,
		notifier: notifier,
		stopChan: make(chan struct{}),
	}
}

// Run executes one import run to completion. It is idempotent across
// re-runs over the same source and store: already-persisted entries
// are counted as duplicates, never re-inserted.
func (i *Importer) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	if opts.SourcePath == "" {
		opts.SourcePath = i.cfg.SourcePath
	}

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	i.running = true
	i.stats = &ImportStats{
		SourcePath:  opts.SourcePath,
		StartTime:   time.Now(),
		DryRun:      opts.DryRun,
		Incremental: opts.Incremental,
	}
	stop := i.stopChan
	start := i.stats.StartTime
	i.mu.Unlock()

	metrics.TrackImportInFlight(true)
	defer metrics.TrackImportInFlight(false)

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	// Stop folds into context cancellation so the extraction loop has
	// a single cancellation signal.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	runCtx = logging.ContextWithNewCorrelationID(runCtx)
	go func() {
		select {
		case <-stop:
			cancel()
		case <-runCtx.Done():
		}
	}()

	result, err := i.executeRun(runCtx, opts)
	duration := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordImportRun(metrics.OutcomeCompleted, duration)
		metrics.RecordRowOutcomes(result.RowsProcessed, result.EntriesImported,
			result.DuplicatesSkipped, result.ErrorCount)
		if i.notifier != nil {
			i.notifier.ImportCompleted(result)
		}
		logging.Ctx(runCtx).Info().
			Str("source", result.SourcePath).
			Int64("imported", result.EntriesImported).
			Int64("duplicates", result.DuplicatesSkipped).
			Int64("errors", result.ErrorCount).
			Dur("duration", duration).
			Bool("dry_run", result.DryRun).
			Msg("Import completed")
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		metrics.RecordImportRun(metrics.OutcomeCanceled, duration)
		if i.notifier != nil {
			i.notifier.ImportFailed(opts.SourcePath, err)
		}
		logging.Ctx(runCtx).Warn().
			Str("source", opts.SourcePath).
			Dur("duration", duration).
			Msg("Import canceled; store left untouched")
	default:
		metrics.RecordImportRun(metrics.OutcomeFailed, duration)
		if i.notifier != nil {
			i.notifier.ImportFailed(opts.SourcePath, err)
		}
		logging.Ctx(runCtx).Error().
			Err(err).
			Str("source", opts.SourcePath).
			Dur("duration", duration).
			Msg("Import failed")
	}

	return result, err
}

// executeRun is the pipeline body: open, inspect, preload dedup,
// extract and stage, flush, record marker.
func (i *Importer) executeRun(ctx context.Context, opts RunOptions) (*RunResult, error) {
	log := logging.Ctx(ctx)

	reader, err := source.Open(ctx, opts.SourcePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Error closing source database")
		}
	}()

	schema, err := reader.Inspect(ctx)
	if err != nil {
		return nil, err
	}

	// Incremental window from the saved marker. Full runs ignore it
	// and overwrite it on success.
	var sinceRowID int64
	if opts.Incremental && i.progress != nil {
		marker, err := i.progress.Load(ctx, opts.SourcePath)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load run marker; scanning from the start")
		} else if marker != nil {
			sinceRowID = marker.LastRowID
			log.Info().
				Int64("since_rowid", sinceRowID).
				Time("last_run", marker.CompletedAt).
				Msg("Resuming past saved marker")
		}
	}

	index := newDedupIndex()
	keys, err := i.store.EntryKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to preload dedup index: %w", err)
	}
	index.preload(keys)

	log.Info().
		Str("source", opts.SourcePath).
		Str("entries_table", schema.EntriesTable).
		Int("persisted_entries", index.size()).
		Bool("dry_run", opts.DryRun).
		Bool("incremental", opts.Incremental).
		Msg("Starting import run")

	var (
		buffer     []*models.JournalEntry
		rowErrors  []source.RowError
		duplicates int64
		lastNotify time.Time
	)

	handle := func(rec *source.LegacyRecord) error {
		mood, activity, category, placement := classify(rec)
		entry, err := buildEntry(rec, mood, activity, category, placement)
		if err != nil {
			rowErrors = append(rowErrors, source.RowError{Ordinal: rec.Ordinal, Err: err})
			i.mu.Lock()
			i.stats.Errors++
			i.mu.Unlock()
			log.Debug().Int64("row", rec.Ordinal).Err(err).Msg("Row rejected")
			return nil
		}

		if index.observe(entry.Content, entry.Timestamp) {
			duplicates++
			i.mu.Lock()
			i.stats.Duplicates++
			i.mu.Unlock()
			return nil
		}

		buffer = append(buffer, entry)
		i.mu.Lock()
		i.stats.Imported++
		i.mu.Unlock()
		return nil
	}

	extractOpts := source.ExtractOptions{
		SinceRowID: sinceRowID,
		BatchSize:  i.cfg.BatchSize,
		Progress: func(processed, total int64) {
			i.mu.Lock()
			i.stats.Processed = processed
			i.stats.TotalRows = total
			snapshot := *i.stats
			i.mu.Unlock()

			if i.notifier != nil && time.Since(lastNotify) >= progressInterval {
				lastNotify = time.Now()
				i.notifier.ImportProgress(snapshot.ToSummary(true))
			}
		},
	}

	res, err := reader.Extract(ctx, schema, extractOpts, handle)
	if err != nil {
		return nil, err
	}

	// Extraction-level row errors (unreadable or uncoercible rows)
	// merge with validation errors, ordered by row.
	rowErrors = append(rowErrors, res.RowErrors...)
	sort.Slice(rowErrors, func(a, b int) bool {
		return rowErrors[a].Ordinal < rowErrors[b].Ordinal
	})
	renderedErrors := make([]string, 0, len(rowErrors))
	for _, re := range rowErrors {
		renderedErrors = append(renderedErrors, re.Error())
	}

	imported := int64(len(buffer))
	if opts.DryRun {
		log.Info().
			Int("staged", len(buffer)).
			Msg("Dry run; skipping terminal flush")
	} else if len(buffer) > 0 {
		inserted, storeDups, err := i.store.InsertEntries(ctx, buffer)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if storeDups > 0 {
			// The run index sees duplicates first; the store's unique
			// index is the last line of defense.
			log.Warn().
				Int("duplicates", storeDups).
				Msg("Store skipped duplicates the run index missed")
			duplicates += int64(storeDups)
		}
		imported = int64(inserted)
	}

	// An incremental run that scanned nothing must not regress the
	// marker below the window it started from.
	markerRowID := res.LastRowID
	if markerRowID < sinceRowID {
		markerRowID = sinceRowID
	}

	i.mu.Lock()
	i.stats.Imported = imported
	i.stats.Duplicates = duplicates
	i.stats.Errors = int64(len(rowErrors))
	i.stats.LastRowID = markerRowID
	i.stats.Incremental = res.Incremental
	startTime := i.stats.StartTime
	i.mu.Unlock()

	result := &RunResult{
		SourcePath:        opts.SourcePath,
		TotalRows:         res.Total,
		RowsProcessed:     res.Processed,
		EntriesImported:   imported,
		DuplicatesSkipped: duplicates,
		ErrorCount:        int64(len(rowErrors)),
		Errors:            renderedErrors,
		LastRowID:         markerRowID,
		StartTime:         startTime,
		EndTime:           time.Now(),
		DryRun:            opts.DryRun,
		Incremental:       res.Incremental,
	}

	// The marker advances only after the committed flush; dry runs
	// record nothing.
	if !opts.DryRun && i.progress != nil {
		marker := &RunMarker{
			SourcePath:        result.SourcePath,
			LastRowID:         result.LastRowID,
			TotalRows:         result.TotalRows,
			RowsProcessed:     result.RowsProcessed,
			EntriesImported:   result.EntriesImported,
			DuplicatesSkipped: result.DuplicatesSkipped,
			ErrorCount:        result.ErrorCount,
			Incremental:       result.Incremental,
			StartedAt:         result.StartTime,
			CompletedAt:       result.EndTime,
		}
		if err := i.progress.Save(ctx, marker); err != nil {
			log.Warn().Err(err).Msg("Failed to save run marker")
		}
	}

	return result, nil
}

// Stop cancels the active run cooperatively. The run stops at its
// next batch checkpoint without flushing.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return ErrNotRunning
	}

	close(i.stopChan)
	i.stopChan = make(chan struct{}) // Reset for the next run

	return nil
}

// IsRunning reports whether a run is currently active.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}

// Status returns a snapshot of the current or most recent run's
// counters.
func (i *Importer) Status() *ProgressSummary {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return (&ImportStats{}).ToSummary(false)
	}
	stats := *i.stats
	return stats.ToSummary(i.running)
}

// History returns the recorded marker for a source, or nil, nil when
// the source has no completed run.
func (i *Importer) History(ctx context.Context, sourcePath string) (*RunMarker, error) {
	if i.progress == nil {
		return nil, nil
	}
	if sourcePath == "" {
		sourcePath = i.cfg.SourcePath
	}
	return i.progress.Load(ctx, sourcePath)
}

// ClearHistory removes a source's marker so the next incremental run
// scans from the beginning.
func (i *Importer) ClearHistory(ctx context.Context, sourcePath string) error {
	if i.progress == nil {
		return nil
	}
	if sourcePath == "" {
		sourcePath = i.cfg.SourcePath
	}
	return i.progress.Clear(ctx, sourcePath)
}

// InspectSource reports a source's schema without importing anything.
// An empty path falls back to the importer's configured source.
func (i *Importer) InspectSource(ctx context.Context, sourcePath string) (*SourceReport, error) {
	if sourcePath == "" {
		sourcePath = i.cfg.SourcePath
	}
	return InspectSource(ctx, sourcePath)
}

// SourceReport is a dry inspection of a source database: what the
// schema looks like and which table an import would read.
type SourceReport struct {
	SourcePath   string          `json:"source_path"`
	Tables       []string        `json:"tables"`
	EntriesTable string          `json:"entries_table,omitempty"`
	Columns      []source.Column `json:"columns,omitempty"`
	RowCount     int64           `json:"row_count"`
}

// InspectSource reports a source's schema without importing anything.
func InspectSource(ctx context.Context, sourcePath string) (*SourceReport, error) {
	reader, err := source.Open(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logging.Warn().Err(closeErr).Msg("Error closing source database")
		}
	}()

	schema, err := reader.Inspect(ctx)
	if err != nil {
		return nil, err
	}

	report := &SourceReport{
		SourcePath:   sourcePath,
		Tables:       schema.Tables,
		EntriesTable: schema.EntriesTable,
		Columns:      schema.Columns,
	}

	if schema.EntriesTable != "" {
		rows, err := reader.CountRows(ctx, schema)
		if err != nil {
			return nil, err
		}
		report.RowCount = rows
	}

	return report, nil
}
