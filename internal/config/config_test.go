// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Server.Port != 8088 {
		t.Errorf("expected default port 8088, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("expected default host 0.0.0.0, got %s", cfg.Server.Host)
	}
	if cfg.Import.BatchSize != 100 {
		t.Errorf("expected default batch size 100, got %d", cfg.Import.BatchSize)
	}
	if cfg.Import.AutoStart {
		t.Error("expected auto start disabled by default")
	}
	if cfg.Database.Path != "/data/constellarium.duckdb" {
		t.Errorf("unexpected default database path: %s", cfg.Database.Path)
	}
	if cfg.API.DefaultPageSize != 50 {
		t.Errorf("expected default page size 50, got %d", cfg.API.DefaultPageSize)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
	if len(cfg.API.CORSOrigins) != 1 || cfg.API.CORSOrigins[0] != "*" {
		t.Errorf("expected default CORS origins [*], got %v", cfg.API.CORSOrigins)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONSTELLARIUM_HTTP_PORT", "9191")
	t.Setenv("CONSTELLARIUM_SOURCE_DB_PATH", "/tmp/life.db")
	t.Setenv("CONSTELLARIUM_IMPORT_BATCH_SIZE", "250")
	t.Setenv("CONSTELLARIUM_IMPORT_TIMEOUT", "5m")
	t.Setenv("CONSTELLARIUM_LOG_LEVEL", "debug")
	t.Setenv("CONSTELLARIUM_API_AUTH_TOKEN", "s3cret-token-value")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9191 {
		t.Errorf("expected port 9191 from env, got %d", cfg.Server.Port)
	}
	if cfg.Import.SourcePath != "/tmp/life.db" {
		t.Errorf("expected source path from env, got %s", cfg.Import.SourcePath)
	}
	if cfg.Import.BatchSize != 250 {
		t.Errorf("expected batch size 250 from env, got %d", cfg.Import.BatchSize)
	}
	if cfg.Import.Timeout != 5*time.Minute {
		t.Errorf("expected 5m timeout from env, got %v", cfg.Import.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug from env, got %s", cfg.Logging.Level)
	}
	if cfg.API.AuthToken != "s3cret-token-value" {
		t.Errorf("expected auth token from env, got %s", cfg.API.AuthToken)
	}
}

func TestLoadCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CONSTELLARIUM_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.API.CORSOrigins) != 2 {
		t.Fatalf("expected 2 CORS origins, got %v", cfg.API.CORSOrigins)
	}
	if cfg.API.CORSOrigins[0] != "https://a.example" || cfg.API.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.API.CORSOrigins)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
import:
  batch_size: 400
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONSTELLARIUM_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090 from file, got %d", cfg.Server.Port)
	}
	if cfg.Import.BatchSize != 400 {
		t.Errorf("expected batch size 400 from file, got %d", cfg.Import.BatchSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn from file, got %s", cfg.Logging.Level)
	}
	// Untouched values keep their defaults.
	if cfg.Database.Path != "/data/constellarium.duckdb" {
		t.Errorf("expected default database path, got %s", cfg.Database.Path)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
server:
  port: 9090
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONSTELLARIUM_CONFIG", path)
	t.Setenv("CONSTELLARIUM_HTTP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("env should override file: expected 9999, got %d", cfg.Server.Port)
	}
}

func TestLoadInvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{not valid yaml"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("CONSTELLARIUM_CONFIG", path)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *Config) { c.Import.BatchSize = 0 },
			wantErr: "IMPORT_BATCH_SIZE",
		},
		{
			name:    "auto start without source",
			mutate:  func(c *Config) { c.Import.AutoStart = true },
			wantErr: "SOURCE_DB_PATH",
		},
		{
			name: "auto start with source",
			mutate: func(c *Config) {
				c.Import.AutoStart = true
				c.Import.SourcePath = "/tmp/life.db"
			},
			wantErr: "",
		},
		{
			name:    "negative import timeout",
			mutate:  func(c *Config) { c.Import.Timeout = -time.Second },
			wantErr: "IMPORT_TIMEOUT",
		},
		{
			name: "missing progress dir",
			mutate: func(c *Config) {
				c.Progress.Dir = ""
				c.Progress.InMemory = false
			},
			wantErr: "PROGRESS_DIR",
		},
		{
			name: "in-memory progress without dir",
			mutate: func(c *Config) {
				c.Progress.Dir = ""
				c.Progress.InMemory = true
			},
			wantErr: "",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: "DUCKDB_PATH",
		},
		{
			name:    "bad memory limit",
			mutate:  func(c *Config) { c.Database.MaxMemory = "lots" },
			wantErr: "DUCKDB_MAX_MEMORY",
		},
		{
			name:    "negative threads",
			mutate:  func(c *Config) { c.Database.Threads = -1 },
			wantErr: "DUCKDB_THREADS",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "max page below default",
			mutate:  func(c *Config) { c.API.MaxPageSize = 10 },
			wantErr: "MAX_PAGE_SIZE",
		},
		{
			name:    "zero rate limit",
			mutate:  func(c *Config) { c.API.RateLimitReqs = 0 },
			wantErr: "RATE_LIMIT_REQUESTS",
		},
		{
			name: "zero rate limit allowed when disabled",
			mutate: func(c *Config) {
				c.API.RateLimitReqs = 0
				c.API.RateLimitDisabled = true
			},
			wantErr: "",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected validation error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidMemoryLimit(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"2GB", true},
		{"512MB", true},
		{"1.5GB", true},
		{"64kb", true},
		{"2 GB", true},
		{"", false},
		{"GB", false},
		{"2", false},
		{"lots", false},
		{"2XB", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := validMemoryLimit(tt.input); got != tt.want {
				t.Errorf("validMemoryLimit(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"CONSTELLARIUM_SOURCE_DB_PATH", "import.source_path"},
		{"CONSTELLARIUM_DUCKDB_PATH", "database.path"},
		{"CONSTELLARIUM_HTTP_PORT", "server.port"},
		{"CONSTELLARIUM_LOG_LEVEL", "logging.level"},
		{"CONSTELLARIUM_CORS_ORIGINS", "api.cors_origins"},
		{"CONSTELLARIUM_PROGRESS_IN_MEMORY", "progress.in_memory"},
		{"CONSTELLARIUM_UNKNOWN_SETTING", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
