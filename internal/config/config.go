// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package config

import "time"

// Config holds all application configuration loaded from defaults, an
// optional YAML file, and environment variables.
//
// Configuration Loading Order (koanf v2):
//  1. Defaults: built-in sensible defaults for all settings
//  2. Config File: optional YAML file for persistent settings
//  3. Environment Variables: CONSTELLARIUM_* overrides any setting
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Import   ImportConfig   `koanf:"import"`
	Progress ProgressConfig `koanf:"progress"`
	Database DatabaseConfig `koanf:"database"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ImportConfig holds settings for the legacy life-log import pipeline.
//
// Environment Variables:
//   - CONSTELLARIUM_SOURCE_DB_PATH: path to the legacy SQLite database
//   - CONSTELLARIUM_IMPORT_BATCH_SIZE: rows per progress/cancellation batch (default: 100)
//   - CONSTELLARIUM_IMPORT_AUTO_START: run an import at startup (default: false)
//   - CONSTELLARIUM_IMPORT_INCREMENTAL: only extract rows past the last run marker (default: false)
//   - CONSTELLARIUM_IMPORT_DRY_RUN: process without persisting (default: false)
//   - CONSTELLARIUM_IMPORT_TIMEOUT: upper bound for a single run (default: 30m)
type ImportConfig struct {
	// SourcePath is the path to the legacy SQLite database file.
	// Required when AutoStart is true; API-triggered runs supply their own.
	SourcePath string `koanf:"source_path"`

	// BatchSize is the number of rows processed between progress reports
	// and cancellation checks.
	BatchSize int `koanf:"batch_size"`

	// AutoStart triggers an import automatically on application startup.
	// When false, imports are triggered via the API or CLI.
	AutoStart bool `koanf:"auto_start"`

	// Incremental extracts only rows beyond the last recorded run marker.
	Incremental bool `koanf:"incremental"`

	// DryRun runs the full pipeline without writing to the store.
	DryRun bool `koanf:"dry_run"`

	// Timeout bounds a single import run.
	Timeout time.Duration `koanf:"timeout"`
}

// ProgressConfig holds settings for the per-source run marker store.
//
// Environment Variables:
//   - CONSTELLARIUM_PROGRESS_DIR: BadgerDB directory for run markers
//   - CONSTELLARIUM_PROGRESS_IN_MEMORY: keep markers in memory only (default: false)
type ProgressConfig struct {
	// Dir is the BadgerDB directory holding run markers.
	Dir string `koanf:"dir"`

	// InMemory keeps run markers in process memory only. Incremental
	// imports then reset on restart; useful for tests and ephemeral runs.
	InMemory bool `koanf:"in_memory"`
}

// DatabaseConfig holds DuckDB settings for the canonical entry store.
//
// Environment Variables:
//   - CONSTELLARIUM_DUCKDB_PATH: database file path (default: /data/constellarium.duckdb)
//   - CONSTELLARIUM_DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
//   - CONSTELLARIUM_DUCKDB_THREADS: DuckDB threads, 0 = NumCPU (default: 0)
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - CONSTELLARIUM_HTTP_PORT: listen port (default: 8088)
//   - CONSTELLARIUM_HTTP_HOST: bind address (default: 0.0.0.0)
//   - CONSTELLARIUM_HTTP_TIMEOUT: read/write timeout (default: 30s)
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds API pagination, authentication, and rate limit settings.
//
// Environment Variables:
//   - CONSTELLARIUM_API_DEFAULT_PAGE_SIZE: default entries page size (default: 50)
//   - CONSTELLARIUM_API_MAX_PAGE_SIZE: maximum entries page size (default: 500)
//   - CONSTELLARIUM_API_AUTH_TOKEN: static bearer token; empty disables auth
//   - CONSTELLARIUM_RATE_LIMIT_REQUESTS: requests per window (default: 100)
//   - CONSTELLARIUM_RATE_LIMIT_WINDOW: rate limit window (default: 1m)
//   - CONSTELLARIUM_DISABLE_RATE_LIMIT: disable rate limiting (default: false)
//   - CONSTELLARIUM_CORS_ORIGINS: comma-separated allowed origins (default: *)
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`

	// AuthToken guards /api/v1 with a static bearer token when non-empty.
	AuthToken string `koanf:"auth_token"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - CONSTELLARIUM_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - CONSTELLARIUM_LOG_FORMAT: json or console (default: json)
//   - CONSTELLARIUM_LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values applied.
// Defaults are loaded first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Import: ImportConfig{
			SourcePath:  "",
			BatchSize:   100,
			AutoStart:   false,
			Incremental: false,
			DryRun:      false,
			Timeout:     30 * time.Minute,
		},
		Progress: ProgressConfig{
			Dir:      "/data/progress",
			InMemory: false,
		},
		Database: DatabaseConfig{
			Path:      "/data/constellarium.duckdb",
			MaxMemory: "2GB",
			Threads:   0, // 0 = use runtime.NumCPU()
		},
		Server: ServerConfig{
			Port:    8088,
			Host:    "0.0.0.0",
			Timeout: 30 * time.Second,
		},
		API: APIConfig{
			DefaultPageSize:   50,
			MaxPageSize:       500,
			AuthToken:         "",
			RateLimitReqs:     100,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
