// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/mvellano/constellarium/internal/config"
)

// markerKeyPrefix namespaces run markers inside the shared Badger
// keyspace. The full key is the prefix plus the source path.
const markerKeyPrefix = "import:marker:"

// RunMarker is the durable record of the last completed run against
// one source. LastRowID bounds the next incremental scan; it advances
// only when a run's terminal flush commits.
type RunMarker struct {
	SourcePath        string    `json:"source_path"`
	LastRowID         int64     `json:"last_row_id"`
	TotalRows         int64     `json:"total_rows"`
	RowsProcessed     int64     `json:"rows_processed"`
	EntriesImported   int64     `json:"entries_imported"`
	DuplicatesSkipped int64     `json:"duplicates_skipped"`
	ErrorCount        int64     `json:"error_count"`
	Incremental       bool      `json:"incremental"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
}

// ProgressTracker persists run markers keyed by source path.
type ProgressTracker interface {
	// Save records the marker for its source, replacing any previous one.
	Save(ctx context.Context, marker *RunMarker) error

	// Load retrieves a source's marker. Returns nil, nil when the
	// source has no recorded run.
	Load(ctx context.Context, sourcePath string) (*RunMarker, error)

	// Clear removes a source's marker, forcing the next incremental
	// run to scan from the beginning.
	Clear(ctx context.Context, sourcePath string) error
}

// OpenBadger opens the Badger database holding run markers, in-memory
// when the config asks for ephemeral operation. The caller owns the
// returned handle and must close it on shutdown.
func OpenBadger(cfg *config.ProgressConfig) (*badger.DB, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts.Logger = nil // Badger's own logger bypasses zerolog

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for progress: %w", err)
	}
	return db, nil
}

// BadgerProgress implements ProgressTracker on BadgerDB, making run
// markers survive application restarts.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress creates a progress tracker on the provided Badger
// instance.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

func markerKey(sourcePath string) []byte {
	return []byte(markerKeyPrefix + sourcePath)
}

// Save persists the marker for its source path.
func (p *BadgerProgress) Save(ctx context.Context, marker *RunMarker) error {
	data, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("marshal run marker: %w", err)
	}

	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(markerKey(marker.SourcePath), data)
	})
}

// Load retrieves the marker recorded for a source path.
// Returns nil, nil when none has been saved.
func (p *BadgerProgress) Load(ctx context.Context, sourcePath string) (*RunMarker, error) {
	var marker RunMarker
	found := false

	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(markerKey(sourcePath))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &marker)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load run marker: %w", err)
	}

	if !found {
		return nil, nil
	}
	return &marker, nil
}

// Clear removes a source's marker.
func (p *BadgerProgress) Clear(ctx context.Context, sourcePath string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(markerKey(sourcePath))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil // Already cleared
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker in process memory, for
// tests and ephemeral operation. Safe for concurrent use; the history
// API reads while a run saves.
type InMemoryProgress struct {
	mu      sync.RWMutex
	markers map[string]*RunMarker
}

// NewInMemoryProgress creates an empty in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{markers: make(map[string]*RunMarker)}
}

// Save stores a copy of the marker.
func (p *InMemoryProgress) Save(_ context.Context, marker *RunMarker) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	markerCopy := *marker
	p.markers[marker.SourcePath] = &markerCopy
	return nil
}

// Load retrieves a copy of a source's marker, or nil, nil.
func (p *InMemoryProgress) Load(_ context.Context, sourcePath string) (*RunMarker, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	marker, ok := p.markers[sourcePath]
	if !ok {
		return nil, nil
	}
	markerCopy := *marker
	return &markerCopy, nil
}

// Clear removes a source's marker.
func (p *InMemoryProgress) Clear(_ context.Context, sourcePath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.markers, sourcePath)
	return nil
}
