// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

// Package logging provides centralized zerolog-based structured logging
// for Constellarium.
//
// All components log through this package so that output format, level,
// and field conventions stay consistent across the importer, the HTTP
// API, and the supervision tree.
//
// The package provides:
//   - Zero-allocation structured logging via zerolog
//   - JSON output for production, console output for development
//   - Context-aware logging with correlation and request ID propagation
//   - An slog adapter so suture v4 can log through zerolog
//   - Sanitization helpers for values that must not reach the logs intact
//
// # Quick Start
//
//	import "github.com/mvellano/constellarium/internal/logging"
//
//	// Initialize at application startup
//	logging.Init(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logging.Info().Str("source", path).Msg("import started")
//	logging.Err(err).Msg("import failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated
// chain is silently dropped:
//
//	logging.Info().Str("key", "value").Msg("message")  // emitted
//	logging.Info().Str("key", "value")                 // never emitted
package logging
