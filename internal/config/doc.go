// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

// Package config provides layered configuration loading for Constellarium.
//
// Configuration is loaded with koanf v2 from three sources, in order of
// increasing priority:
//
//  1. Built-in defaults for every setting
//  2. An optional YAML config file (first match from the search paths,
//     or the file named by CONSTELLARIUM_CONFIG)
//  3. Environment variables with the CONSTELLARIUM_ prefix
//
// Environment variable names map onto nested config paths through an
// explicit table, so CONSTELLARIUM_SOURCE_DB_PATH sets import.source_path
// and CONSTELLARIUM_HTTP_PORT sets server.port. Unmapped variables are
// ignored rather than guessed at.
//
// The loaded Config is validated before being returned and is immutable
// afterwards, so it is safe for concurrent reads.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("invalid configuration")
//	}
//	store, err := database.New(cfg.Database)
package config
