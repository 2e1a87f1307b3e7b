// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/logging"
)

// Global flags shared by every subcommand.
var (
	cfgFile   string
	logLevel  string
	logFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "constellarium",
		Short: "Import legacy life-log databases into a canonical journal store",
		Long: `Constellarium ingests legacy life-logging SQLite databases whose
schemas are not known in advance, normalizes their rows into canonical
journal entries, and persists them into DuckDB for querying.

Running without a subcommand starts the supervised server.`,
		RunE:         runServe,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: config.yaml, /etc/constellarium/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or console (overrides config)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the layered configuration, honoring the --config
// flag, and initializes logging with any command line overrides
// applied. Every subcommand calls this exactly once, first.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		// An explicit --config that does not exist is an error; the
		// search path would silently fall through to defaults.
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
		os.Setenv(config.ConfigPathEnvVar, cfgFile)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	return cfg, nil
}
