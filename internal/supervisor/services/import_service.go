// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package services

import (
	"context"
	"fmt"

	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/logging"
)

// ImportRunner abstracts the importer's lifecycle for supervisor
// integration.
type ImportRunner interface {
	// Run executes a full import run against the configured source.
	// It blocks until the run completes or the context is canceled.
	Run(ctx context.Context, opts journal.RunOptions) (*journal.RunResult, error)

	// IsRunning reports whether a run is currently in progress.
	IsRunning() bool

	// Stop cancels a running import.
	Stop() error
}

// ImportService wraps the journal importer as a supervised service.
//
// The service supports two modes:
//  1. AutoStart mode: runs an import automatically when the service starts
//  2. On-demand mode: waits for external trigger via the API
//
// When AutoStart is enabled, the service will:
//  1. Start an import run with the configured options
//  2. Wait for completion or context cancellation
//  3. Return ctx.Err() to indicate normal shutdown
//
// When AutoStart is disabled, the service will:
//  1. Wait for context cancellation
//  2. Stop any API-triggered run that is still in flight
type ImportService struct {
	importer  ImportRunner
	opts      journal.RunOptions
	name      string
	autoStart bool
}

// NewImportService creates a new import service wrapper. The opts are
// only used in AutoStart mode; API-triggered runs carry their own.
//
// Example usage:
//
//	importer := journal.NewImporter(&cfg.Import, store, tracker, notifier)
//	svc := services.NewImportService(importer, journal.RunOptions{
//		SourcePath:  cfg.Import.SourcePath,
//		Incremental: cfg.Import.Incremental,
//		DryRun:      cfg.Import.DryRun,
//	}, cfg.Import.AutoStart)
//	tree.AddMessagingService(svc)
func NewImportService(importer ImportRunner, opts journal.RunOptions, autoStart bool) *ImportService {
	return &ImportService{
		importer:  importer,
		opts:      opts,
		name:      "journal-import",
		autoStart: autoStart,
	}
}

// Serve implements suture.Service.
//
// If autoStart is true:
//   - Starts an import run immediately
//   - Blocks until the run completes or the context is canceled
//   - Returns any import errors
//
// If autoStart is false:
//   - Blocks until context is canceled
//   - Imports must be triggered externally via the API
func (s *ImportService) Serve(ctx context.Context) error {
	if s.autoStart {
		logging.Info().
			Str("source_path", s.opts.SourcePath).
			Bool("incremental", s.opts.Incremental).
			Bool("dry_run", s.opts.DryRun).
			Msg("Starting automatic life-log import")
		result, err := s.importer.Run(ctx, s.opts)
		if err != nil {
			if ctx.Err() != nil {
				// Context canceled - normal shutdown
				logging.Info().Msg("Import canceled due to shutdown")
				return ctx.Err()
			}
			return fmt.Errorf("import failed: %w", err)
		}
		logging.Info().
			Int64("entries_imported", result.EntriesImported).
			Int64("duplicates_skipped", result.DuplicatesSkipped).
			Msg("Import completed")

		// Wait for shutdown after import completes
		<-ctx.Done()
		return ctx.Err()
	}

	// On-demand mode - just wait for shutdown
	logging.Info().Msg("Import service started (on-demand mode - use API to trigger)")
	<-ctx.Done()

	// If an import is running, stop it
	if s.importer.IsRunning() {
		logging.Info().Msg("Stopping running import due to shutdown")
		if err := s.importer.Stop(); err != nil {
			logging.Warn().Err(err).Msg("Failed to stop import")
		}
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *ImportService) String() string {
	return s.name
}

// Importer returns the underlying importer instance.
// This is useful for triggering imports via API handlers.
func (s *ImportService) Importer() ImportRunner {
	return s.importer
}
