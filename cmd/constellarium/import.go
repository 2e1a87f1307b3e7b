// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/database"
	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/models"
)

// maxPrintedRowErrors bounds the per-row error listing on the console;
// the full count is always reported.
const maxPrintedRowErrors = 20

func importCmd() *cobra.Command {
	var (
		incremental bool
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "import [source]",
		Short: "Run a one-shot import against a legacy life-log database",
		Long: `Run the full pipeline once against a legacy SQLite database and
exit: inspect the schema, extract and normalize rows, deduplicate, and
persist canonical entries into the configured DuckDB store.

The source path argument falls back to the configured source
(CONSTELLARIUM_SOURCE_DB_PATH) when omitted. Progress is printed to
stdout; row-level errors do not fail the command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			sourcePath := cfg.Import.SourcePath
			if len(args) > 0 {
				sourcePath = args[0]
			}
			if sourcePath == "" {
				return errors.New("no source database: pass a path or set CONSTELLARIUM_SOURCE_DB_PATH")
			}

			return runImport(cfg, sourcePath, incremental, dryRun)
		},
	}

	cmd.Flags().BoolVar(&incremental, "incremental", false, "only extract rows past the last run marker")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without writing to the store")
	return cmd
}

func runImport(cfg *config.Config, sourcePath string, incremental, dryRun bool) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	badgerDB, err := journal.OpenBadger(&cfg.Progress)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing progress store")
		}
	}()
	tracker := journal.NewBadgerProgress(badgerDB)

	importer := journal.NewImporter(&cfg.Import, db, tracker, &consoleNotifier{out: os.Stdout})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Import.Timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := importer.Run(ctx, journal.RunOptions{
		SourcePath:  sourcePath,
		Incremental: incremental,
		DryRun:      dryRun,
	})
	fmt.Fprintln(os.Stdout) // terminate the progress line
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printRunSummary(os.Stdout, result)
	printRowErrors(os.Stderr, result)

	// The run summary covers this run; the store summary covers the
	// whole journal the run landed in.
	if !dryRun {
		if stats, err := db.GetEntryStats(ctx); err == nil {
			printStoreSummary(os.Stdout, stats)
		}
	}

	return nil
}

func printRunSummary(w io.Writer, result *journal.RunResult) {
	fmt.Fprintf(w, "Source:     %s\n", result.SourcePath)
	switch {
	case result.DryRun:
		fmt.Fprintln(w, "Mode:       dry run (nothing persisted)")
	case result.Incremental:
		fmt.Fprintln(w, "Mode:       incremental")
	}
	fmt.Fprintf(w, "Rows:       %d processed of %d\n", result.RowsProcessed, result.TotalRows)
	fmt.Fprintf(w, "Imported:   %d\n", result.EntriesImported)
	fmt.Fprintf(w, "Duplicates: %d\n", result.DuplicatesSkipped)
	fmt.Fprintf(w, "Errors:     %d\n", result.ErrorCount)
	fmt.Fprintf(w, "Duration:   %s\n", result.Duration().Round(time.Millisecond))
}

func printRowErrors(w io.Writer, result *journal.RunResult) {
	if len(result.Errors) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%d rows were skipped:\n", result.ErrorCount)
	printed := result.Errors
	if len(printed) > maxPrintedRowErrors {
		printed = printed[:maxPrintedRowErrors]
	}
	for _, msg := range printed {
		fmt.Fprintf(w, "  %s\n", msg)
	}
	if remaining := len(result.Errors) - len(printed); remaining > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", remaining)
	}
}

func printStoreSummary(w io.Writer, stats *models.EntryStats) {
	fmt.Fprintf(w, "\nStore now holds %d entries", stats.TotalEntries)
	if stats.FirstTimestamp != nil && stats.LastTimestamp != nil {
		fmt.Fprintf(w, " spanning %s to %s",
			stats.FirstTimestamp.Format("2006-01-02"),
			stats.LastTimestamp.Format("2006-01-02"))
	}
	fmt.Fprintln(w)
	if stats.WithLocation > 0 {
		fmt.Fprintf(w, "With location: %d\n", stats.WithLocation)
	}
}

// consoleNotifier renders run notifications as console progress output,
// standing in for the WebSocket hub the server wires here. Terminal
// events are left to the command's own summary.
type consoleNotifier struct {
	out io.Writer
}

func (n *consoleNotifier) ImportProgress(summary *journal.ProgressSummary) {
	if summary.TotalRows > 0 {
		fmt.Fprintf(n.out, "\r%5.1f%%  %d/%d rows  imported %d  duplicates %d  errors %d  (%.0f rows/s)",
			summary.Progress, summary.Processed, summary.TotalRows,
			summary.Imported, summary.Duplicates, summary.Errors, summary.RowsPerSec)
	} else {
		fmt.Fprintf(n.out, "\r%d rows  imported %d  duplicates %d  errors %d",
			summary.Processed, summary.Imported, summary.Duplicates, summary.Errors)
	}
}

func (n *consoleNotifier) ImportCompleted(*journal.RunResult) {}

func (n *consoleNotifier) ImportFailed(string, error) {}
