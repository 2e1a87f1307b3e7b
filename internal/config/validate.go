// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package config

import (
	"fmt"
	"strings"
)

// Import limit constants.
const (
	importMinBatchSize = 1
	importMaxBatchSize = 100000
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateImport(); err != nil {
		return err
	}

	if err := c.validateProgress(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAPI(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateImport validates import pipeline configuration.
func (c *Config) validateImport() error {
	if c.Import.BatchSize < importMinBatchSize || c.Import.BatchSize > importMaxBatchSize {
		return fmt.Errorf("CONSTELLARIUM_IMPORT_BATCH_SIZE must be between %d and %d",
			importMinBatchSize, importMaxBatchSize)
	}

	if c.Import.AutoStart && c.Import.SourcePath == "" {
		return fmt.Errorf("CONSTELLARIUM_SOURCE_DB_PATH is required when CONSTELLARIUM_IMPORT_AUTO_START=true")
	}

	if c.Import.Timeout <= 0 {
		return fmt.Errorf("CONSTELLARIUM_IMPORT_TIMEOUT must be positive")
	}

	return nil
}

// validateProgress validates run marker store configuration.
func (c *Config) validateProgress() error {
	if !c.Progress.InMemory && c.Progress.Dir == "" {
		return fmt.Errorf("CONSTELLARIUM_PROGRESS_DIR is required unless CONSTELLARIUM_PROGRESS_IN_MEMORY=true")
	}
	return nil
}

// validateDatabase validates the entry store configuration.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("CONSTELLARIUM_DUCKDB_PATH must not be empty")
	}

	if c.Database.Threads < 0 {
		return fmt.Errorf("CONSTELLARIUM_DUCKDB_THREADS must be >= 0 (0 = use all CPUs)")
	}

	if c.Database.MaxMemory != "" && !validMemoryLimit(c.Database.MaxMemory) {
		return fmt.Errorf("CONSTELLARIUM_DUCKDB_MAX_MEMORY must look like '512MB' or '2GB', got %q",
			c.Database.MaxMemory)
	}

	return nil
}

// validMemoryLimit accepts DuckDB-style memory limits such as "512MB" or "2GB".
func validMemoryLimit(s string) bool {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for _, suffix := range []string{"KB", "MB", "GB", "TB"} {
		if num, ok := strings.CutSuffix(upper, suffix); ok {
			num = strings.TrimSpace(num)
			if num == "" {
				return false
			}
			for _, r := range num {
				if (r < '0' || r > '9') && r != '.' {
					return false
				}
			}
			return true
		}
	}
	return false
}

// validateServer validates HTTP server configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("CONSTELLARIUM_HTTP_PORT must be between 1 and 65535")
	}

	if c.Server.Host == "" {
		return fmt.Errorf("CONSTELLARIUM_HTTP_HOST must not be empty")
	}

	if c.Server.Timeout <= 0 {
		return fmt.Errorf("CONSTELLARIUM_HTTP_TIMEOUT must be positive")
	}

	return nil
}

// validateAPI validates API pagination and rate limit configuration.
func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("CONSTELLARIUM_API_DEFAULT_PAGE_SIZE must be >= 1")
	}

	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("CONSTELLARIUM_API_MAX_PAGE_SIZE must be >= CONSTELLARIUM_API_DEFAULT_PAGE_SIZE")
	}

	if !c.API.RateLimitDisabled {
		if c.API.RateLimitReqs < 1 {
			return fmt.Errorf("CONSTELLARIUM_RATE_LIMIT_REQUESTS must be >= 1")
		}
		if c.API.RateLimitWindow <= 0 {
			return fmt.Errorf("CONSTELLARIUM_RATE_LIMIT_WINDOW must be positive")
		}
	}

	if len(c.API.CORSOrigins) == 0 {
		return fmt.Errorf("CONSTELLARIUM_CORS_ORIGINS must not be empty (use '*' to allow all)")
	}

	return nil
}

// validateLogging validates logging configuration.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("CONSTELLARIUM_LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("CONSTELLARIUM_LOG_FORMAT must be 'json' or 'console'")
	}

	return nil
}
