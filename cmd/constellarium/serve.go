// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mvellano/constellarium/internal/api"
	"github.com/mvellano/constellarium/internal/database"
	"github.com/mvellano/constellarium/internal/journal"
	"github.com/mvellano/constellarium/internal/logging"
	"github.com/mvellano/constellarium/internal/supervisor"
	"github.com/mvellano/constellarium/internal/supervisor/services"
	ws "github.com/mvellano/constellarium/internal/websocket"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the supervised import server",
		Long: `Run the full application under a suture supervisor tree: the
WebSocket hub, the import service, and the HTTP API server. This is
also what running constellarium without a subcommand does.`,
		RunE: runServe,
	}
}

// runServe assembles and runs the application under the supervisor
// tree. Startup failures before the tree serves are fatal; once it is
// serving, failures are handled by supervised restarts instead.
//
//nolint:gocyclo // Main initialization function with sequential setup steps
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Info().Msg("Starting Constellarium with supervisor tree")

	if cfg.Import.SourcePath != "" {
		logging.Info().
			Str("source_path", cfg.Import.SourcePath).
			Str("db_path", cfg.Database.Path).
			Bool("auto_start", cfg.Import.AutoStart).
			Msg("Configuration loaded")
	} else {
		logging.Info().
			Str("db_path", cfg.Database.Path).
			Msg("Configuration loaded (no source configured - imports are triggered via the API)")
	}

	// Initialize the canonical entry store
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	// Run marker store for incremental imports
	badgerDB, err := journal.OpenBadger(&cfg.Progress)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open progress store")
	}
	defer func() {
		if err := badgerDB.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing progress store")
		}
	}()
	tracker := journal.NewBadgerProgress(badgerDB)
	if cfg.Progress.InMemory {
		logging.Info().Msg("Progress store is in-memory - run markers reset on restart")
	} else {
		logging.Info().Str("dir", cfg.Progress.Dir).Msg("Progress store opened")
	}

	if cfg.API.AuthToken == "" {
		logging.Warn().Msg("============================================================")
		logging.Warn().Msg("  SECURITY WARNING: API authentication is DISABLED")
		logging.Warn().Msg("  ")
		logging.Warn().Msg("  No auth token is configured, so all endpoints are publicly")
		logging.Warn().Msg("  accessible. This is fine for local use, but set")
		logging.Warn().Msg("  CONSTELLARIUM_API_AUTH_TOKEN before exposing this instance")
		logging.Warn().Msg("  to any untrusted network.")
		logging.Warn().Msg("============================================================")
	}

	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (CONSTELLARIUM_DISABLE_RATE_LIMIT=true)")
	}

	if cfg.API.AuthToken != "" && slices.Contains(cfg.API.CORSOrigins, "*") {
		logging.Warn().Msg("CORS is configured with a wildcard origin while authentication is enabled")
		logging.Warn().Msg("Set CONSTELLARIUM_CORS_ORIGINS to specific origins in production")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// The hub must exist before the importer so run notifications have
	// somewhere to go from the first row onward.
	wsHub := ws.NewHub()
	notifier := ws.NewNotifier(wsHub)

	importer := journal.NewImporter(&cfg.Import, db, tracker, notifier)

	handler := api.NewHandler(db, importer, cfg, wsHub)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Messaging layer services
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(services.NewImportService(importer, journal.RunOptions{
		SourcePath:  cfg.Import.SourcePath,
		Incremental: cfg.Import.Incremental,
		DryRun:      cfg.Import.DryRun,
	}, cfg.Import.AutoStart))
	logging.Info().
		Bool("auto_start", cfg.Import.AutoStart).
		Msg("WebSocket hub and import service added to supervisor tree")

	// API layer services
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}
