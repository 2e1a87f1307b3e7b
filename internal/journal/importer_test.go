// Constellarium - Legacy Life-Log Import and Journal Normalization
// Copyright 2026 M. Vellano (mvellano)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mvellano/constellarium

package journal

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mvellano/constellarium/internal/config"
	"github.com/mvellano/constellarium/internal/database"
	"github.com/mvellano/constellarium/internal/models"
	"github.com/mvellano/constellarium/internal/source"
)

// createLegacyDB builds a throwaway source database from the given
// statements and returns its path.
func createLegacyDB(t *testing.T, stmts ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to create fixture database: %v", err)
	}
	defer func() { _ = db.Close() }()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to execute fixture statement %q: %v", stmt, err)
		}
	}
	return path
}

// memStore is an EntryStore over process memory. It retains the keys
// of everything inserted, so re-runs against the same instance see
// their earlier entries in the dedup preload, like the real store.
type memStore struct {
	mu        sync.Mutex
	keys      []database.EntryKey
	inserted  []*models.JournalEntry
	flushes   int
	keysErr   error
	insertErr error

	// gate, when non-nil, blocks EntryKeys until closed or the run is
	// canceled. Lets tests hold a run open at a deterministic point.
	gate chan struct{}
}

func (s *memStore) EntryKeys(ctx context.Context) ([]database.EntryKey, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.keysErr != nil {
		return nil, s.keysErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]database.EntryKey(nil), s.keys...), nil
}

func (s *memStore) InsertEntries(ctx context.Context, entries []*models.JournalEntry) (int, int, error) {
	if s.insertErr != nil {
		return 0, 0, s.insertErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++

	persisted := make(map[dedupKey]struct{}, len(s.keys))
	for _, k := range s.keys {
		persisted[keyFor(k.Content, k.Timestamp)] = struct{}{}
	}

	inserted, duplicates := 0, 0
	for _, e := range entries {
		k := keyFor(e.Content, e.Timestamp)
		if _, dup := persisted[k]; dup {
			duplicates++
			continue
		}
		persisted[k] = struct{}{}
		s.keys = append(s.keys, database.EntryKey{Timestamp: e.Timestamp, Content: e.Content})
		s.inserted = append(s.inserted, e)
		inserted++
	}
	return inserted, duplicates, nil
}

func (s *memStore) flushed() []*models.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*models.JournalEntry(nil), s.inserted...)
}

func (s *memStore) flushCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// recordingNotifier captures lifecycle events. The optional onProgress
// hook fires on the first progress notification only, giving tests a
// deterministic mid-run intervention point.
type recordingNotifier struct {
	mu         sync.Mutex
	progress   []*ProgressSummary
	completed  []*RunResult
	failed     []string
	onProgress func()
	fired      bool
}

func (n *recordingNotifier) ImportProgress(summary *ProgressSummary) {
	n.mu.Lock()
	n.progress = append(n.progress, summary)
	hook := n.onProgress
	fired := n.fired
	n.fired = true
	n.mu.Unlock()

	if hook != nil && !fired {
		hook()
	}
}

func (n *recordingNotifier) ImportCompleted(result *RunResult) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, result)
}

func (n *recordingNotifier) ImportFailed(sourcePath string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failed = append(n.failed, sourcePath)
}

func (n *recordingNotifier) progressCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.progress)
}

func (n *recordingNotifier) completedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.completed)
}

func (n *recordingNotifier) failedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.failed)
}

func importConfig(sourcePath string) *config.ImportConfig {
	return &config.ImportConfig{
		SourcePath: sourcePath,
		BatchSize:  1,
	}
}

func TestRunHappyPath(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE diary_entries (id TEXT, entry TEXT, date TEXT, lat TEXT, lng TEXT, mood TEXT, category TEXT)`,
		`INSERT INTO diary_entries VALUES ('1', 'Great hike today', '1718840400', '42.28', '-83.74', 'happy', 'exercise')`,
	)
	store := &memStore{}
	notifier := &recordingNotifier{}
	imp := NewImporter(importConfig(path), store, NewInMemoryProgress(), notifier)

	result, err := imp.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TotalRows != 1 || result.RowsProcessed != 1 {
		t.Errorf("rows: total=%d processed=%d, want 1/1", result.TotalRows, result.RowsProcessed)
	}
	if result.EntriesImported != 1 {
		t.Errorf("EntriesImported = %d, want 1", result.EntriesImported)
	}
	if result.DuplicatesSkipped != 0 || result.ErrorCount != 0 {
		t.Errorf("duplicates=%d errors=%d, want 0/0", result.DuplicatesSkipped, result.ErrorCount)
	}
	if result.LastRowID != 1 {
		t.Errorf("LastRowID = %d, want 1", result.LastRowID)
	}

	entries := store.flushed()
	if len(entries) != 1 {
		t.Fatalf("store received %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Content != "Great hike today" {
		t.Errorf("Content = %q", entry.Content)
	}
	if entry.Mood != models.MoodHappy {
		t.Errorf("Mood = %q, want happy", entry.Mood)
	}
	if entry.Activity != models.ActivityExercise {
		t.Errorf("Activity = %q, want exercise", entry.Activity)
	}
	if entry.Category != models.CategoryPath {
		t.Errorf("Category = %q, want path", entry.Category)
	}
	if entry.Latitude == nil || *entry.Latitude != 42.28 {
		t.Errorf("Latitude = %v, want 42.28", entry.Latitude)
	}
	if want := time.Unix(1718840400, 0).UTC(); !entry.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", entry.Timestamp, want)
	}

	if notifier.completedCount() != 1 {
		t.Errorf("completed notifications = %d, want 1", notifier.completedCount())
	}
	if notifier.progressCount() == 0 {
		t.Error("expected at least one progress notification")
	}
}

func TestRunSkipsDuplicateRows(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT, created_at DATETIME)`,
		`INSERT INTO entries VALUES ('same moment', '2024-06-19 15:00:00')`,
		`INSERT INTO entries VALUES ('same moment', '2024-06-19 15:00:00')`,
		`INSERT INTO entries VALUES ('different moment', '2024-06-19 16:00:00')`,
	)
	store := &memStore{}
	imp := NewImporter(importConfig(path), store, nil, nil)

	result, err := imp.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.EntriesImported != 2 {
		t.Errorf("EntriesImported = %d, want 2", result.EntriesImported)
	}
	if result.DuplicatesSkipped != 1 {
		t.Errorf("DuplicatesSkipped = %d, want 1", result.DuplicatesSkipped)
	}
	if len(store.flushed()) != 2 {
		t.Errorf("store received %d entries, want 2", len(store.flushed()))
	}
}

func TestRunRejectsInvalidLocation(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT, latitude REAL, longitude REAL)`,
		`INSERT INTO entries VALUES ('impossible place', 200, 10)`,
		`INSERT INTO entries VALUES ('real place', 51.5, -0.12)`,
	)
	store := &memStore{}
	imp := NewImporter(importConfig(path), store, nil, nil)

	result, err := imp.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ErrorCount != 1 {
		t.Fatalf("ErrorCount = %d, want 1", result.ErrorCount)
	}
	if result.EntriesImported != 1 {
		t.Errorf("EntriesImported = %d, want 1; bad rows must not stop the run", result.EntriesImported)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "location") {
		t.Errorf("Errors = %v, want one location error", result.Errors)
	}

	entries := store.flushed()
	if len(entries) != 1 || entries[0].Content != "real place" {
		t.Errorf("store received %v, want only the valid row", entries)
	}
}

func TestRunCountsEmptyContent(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('   ')`,
		`INSERT INTO entries VALUES ('kept')`,
	)
	store := &memStore{}
	imp := NewImporter(importConfig(path), store, nil, nil)

	result, err := imp.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", result.ErrorCount)
	}
	if result.EntriesImported != 1 {
		t.Errorf("EntriesImported = %d, want 1", result.EntriesImported)
	}
}

func TestRunIdempotentRerun(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT, created_at DATETIME)`,
		`INSERT INTO entries VALUES ('first', '2024-06-19 15:00:00')`,
		`INSERT INTO entries VALUES ('second', '2024-06-19 16:00:00')`,
	)
	store := &memStore{}
	imp := NewImporter(importConfig(path), store, nil, nil)
	ctx := context.Background()

	first, err := imp.Run(ctx, RunOptions{})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.EntriesImported != 2 {
		t.Fatalf("first run imported %d, want 2", first.EntriesImported)
	}

	second, err := imp.Run(ctx, RunOptions{})
	if err != nil {
		t.Fatalf("second Run failed: %v", err)
	}
	if second.EntriesImported != 0 {
		t.Errorf("second run imported %d, want 0", second.EntriesImported)
	}
	if second.DuplicatesSkipped != 2 {
		t.Errorf("second run duplicates = %d, want 2", second.DuplicatesSkipped)
	}
	if len(store.flushed()) != 2 {
		t.Errorf("store holds %d entries after re-run, want 2", len(store.flushed()))
	}
}

func TestRunDryRun(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('would import')`,
	)
	store := &memStore{}
	tracker := NewInMemoryProgress()
	imp := NewImporter(importConfig(path), store, tracker, nil)

	result, err := imp.Run(context.Background(), RunOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.DryRun {
		t.Error("result.DryRun = false, want true")
	}
	if result.EntriesImported != 1 {
		t.Errorf("EntriesImported = %d, want the staged count", result.EntriesImported)
	}
	if store.flushCount() != 0 {
		t.Errorf("store flushed %d times during dry run, want 0", store.flushCount())
	}

	// Dry runs leave no marker.
	marker, err := tracker.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if marker != nil {
		t.Errorf("dry run recorded a marker: %+v", marker)
	}
}

func TestRunIncremental(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT, created_at DATETIME)`,
		`INSERT INTO entries VALUES ('old one', '2024-06-19 15:00:00')`,
		`INSERT INTO entries VALUES ('old two', '2024-06-19 16:00:00')`,
	)
	store := &memStore{}
	tracker := NewInMemoryProgress()
	imp := NewImporter(importConfig(path), store, tracker, nil)
	ctx := context.Background()

	first, err := imp.Run(ctx, RunOptions{})
	if err != nil {
		t.Fatalf("first Run failed: %v", err)
	}
	if first.LastRowID != 2 {
		t.Fatalf("first run LastRowID = %d, want 2", first.LastRowID)
	}

	// New rows appear after the first run.
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to reopen fixture: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO entries VALUES ('fresh', '2024-06-20 09:00:00')`); err != nil {
		t.Fatalf("failed to insert new row: %v", err)
	}
	_ = db.Close()

	second, err := imp.Run(ctx, RunOptions{Incremental: true})
	if err != nil {
		t.Fatalf("incremental Run failed: %v", err)
	}

	if !second.Incremental {
		t.Error("result.Incremental = false, want true")
	}
	if second.TotalRows != 1 || second.RowsProcessed != 1 {
		t.Errorf("incremental scan rows: total=%d processed=%d, want 1/1", second.TotalRows, second.RowsProcessed)
	}
	if second.EntriesImported != 1 {
		t.Errorf("incremental run imported %d, want 1", second.EntriesImported)
	}
	if second.LastRowID != 3 {
		t.Errorf("incremental LastRowID = %d, want 3", second.LastRowID)
	}

	marker, err := tracker.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if marker == nil || marker.LastRowID != 3 {
		t.Errorf("marker after incremental run = %+v, want LastRowID 3", marker)
	}
}

func TestRunIncrementalNothingNewKeepsMarker(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('only row')`,
	)
	store := &memStore{}
	tracker := NewInMemoryProgress()
	imp := NewImporter(importConfig(path), store, tracker, nil)
	ctx := context.Background()

	if _, err := imp.Run(ctx, RunOptions{}); err != nil {
		t.Fatalf("first Run failed: %v", err)
	}

	second, err := imp.Run(ctx, RunOptions{Incremental: true})
	if err != nil {
		t.Fatalf("incremental Run failed: %v", err)
	}
	if second.RowsProcessed != 0 {
		t.Errorf("processed %d rows with nothing new, want 0", second.RowsProcessed)
	}
	if second.LastRowID != 1 {
		t.Errorf("LastRowID regressed to %d, want 1", second.LastRowID)
	}

	marker, err := tracker.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if marker == nil || marker.LastRowID != 1 {
		t.Errorf("marker = %+v, want LastRowID 1", marker)
	}
}

func TestRunCancellationLeavesStoreUntouched(t *testing.T) {
	stmts := []string{`CREATE TABLE entries (content TEXT, created_at DATETIME)`}
	stmts = append(stmts,
		`INSERT INTO entries VALUES ('one', '2024-06-19 15:00:00')`,
		`INSERT INTO entries VALUES ('two', '2024-06-19 16:00:00')`,
		`INSERT INTO entries VALUES ('three', '2024-06-19 17:00:00')`,
	)
	path := createLegacyDB(t, stmts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &memStore{}
	tracker := NewInMemoryProgress()
	notifier := &recordingNotifier{onProgress: cancel}
	imp := NewImporter(importConfig(path), store, tracker, notifier)

	_, err := imp.Run(ctx, RunOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}

	if store.flushCount() != 0 {
		t.Errorf("store flushed %d times after cancellation, want 0", store.flushCount())
	}

	marker, loadErr := tracker.Load(context.Background(), path)
	if loadErr != nil {
		t.Fatalf("Load failed: %v", loadErr)
	}
	if marker != nil {
		t.Errorf("canceled run recorded a marker: %+v", marker)
	}

	if notifier.failedCount() != 1 {
		t.Errorf("failed notifications = %d, want 1", notifier.failedCount())
	}
	if notifier.completedCount() != 0 {
		t.Errorf("completed notifications = %d, want 0", notifier.completedCount())
	}
}

func TestStopCancelsActiveRun(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('row')`,
	)

	gate := make(chan struct{})
	store := &memStore{gate: gate}
	imp := NewImporter(importConfig(path), store, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := imp.Run(context.Background(), RunOptions{})
		done <- err
	}()

	// The run is now held open inside the dedup preload.
	waitFor(t, imp.IsRunning)

	if err := imp.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Stop")
	}

	if store.flushCount() != 0 {
		t.Errorf("store flushed %d times after Stop, want 0", store.flushCount())
	}
	if imp.IsRunning() {
		t.Error("importer still reports running")
	}
}

func TestStopWithoutActiveRun(t *testing.T) {
	imp := NewImporter(importConfig("/data/legacy.db"), &memStore{}, nil, nil)
	if err := imp.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop returned %v, want ErrNotRunning", err)
	}
}

func TestRunAlreadyRunning(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('row')`,
	)

	gate := make(chan struct{})
	store := &memStore{gate: gate}
	imp := NewImporter(importConfig(path), store, nil, nil)

	done := make(chan error, 1)
	go func() {
		_, err := imp.Run(context.Background(), RunOptions{})
		done <- err
	}()

	waitFor(t, imp.IsRunning)

	if _, err := imp.Run(context.Background(), RunOptions{}); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("concurrent Run returned %v, want ErrAlreadyRunning", err)
	}

	close(gate)
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("first Run failed after release: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("first Run never finished")
	}
}

func TestRunSourcePathFallsBackToConfig(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('configured source')`,
	)
	imp := NewImporter(importConfig(path), &memStore{}, nil, nil)

	result, err := imp.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.SourcePath != path {
		t.Errorf("SourcePath = %q, want the configured %q", result.SourcePath, path)
	}
}

func TestRunNoEntriesTable(t *testing.T) {
	path := createLegacyDB(t, `CREATE TABLE android_metadata (locale TEXT)`)
	notifier := &recordingNotifier{}
	imp := NewImporter(importConfig(path), &memStore{}, nil, notifier)

	_, err := imp.Run(context.Background(), RunOptions{})
	if !errors.Is(err, source.ErrNoEntriesTable) {
		t.Fatalf("Run returned %v, want ErrNoEntriesTable", err)
	}
	if notifier.failedCount() != 1 {
		t.Errorf("failed notifications = %d, want 1", notifier.failedCount())
	}
}

func TestRunPersistenceFailure(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('doomed')`,
	)
	store := &memStore{insertErr: errors.New("disk full")}
	imp := NewImporter(importConfig(path), store, nil, nil)

	_, err := imp.Run(context.Background(), RunOptions{})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Run returned %v, want ErrPersistence", err)
	}
}

func TestStatusLifecycle(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('row')`,
	)
	imp := NewImporter(importConfig(path), &memStore{}, nil, nil)

	if status := imp.Status(); status.Status != "idle" {
		t.Errorf("Status before any run = %q, want idle", status.Status)
	}

	if _, err := imp.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	status := imp.Status()
	if status.Status != "completed" {
		t.Errorf("Status after run = %q, want completed", status.Status)
	}
	if status.Imported != 1 {
		t.Errorf("Status.Imported = %d, want 1", status.Imported)
	}
	if status.LastRowID != 1 {
		t.Errorf("Status.LastRowID = %d, want 1", status.LastRowID)
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE entries (content TEXT)`,
		`INSERT INTO entries VALUES ('row')`,
	)
	tracker := NewInMemoryProgress()
	imp := NewImporter(importConfig(path), &memStore{}, tracker, nil)
	ctx := context.Background()

	// No run yet: no history.
	marker, err := imp.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if marker != nil {
		t.Errorf("History before any run = %+v, want nil", marker)
	}

	if _, err := imp.Run(ctx, RunOptions{}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Empty source path falls back to the configured source.
	marker, err = imp.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if marker == nil || marker.EntriesImported != 1 {
		t.Errorf("History after run = %+v, want 1 imported", marker)
	}

	if err := imp.ClearHistory(ctx, ""); err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	marker, err = imp.History(ctx, "")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if marker != nil {
		t.Errorf("History after clear = %+v, want nil", marker)
	}
}

func TestHistoryWithoutTracker(t *testing.T) {
	imp := NewImporter(importConfig("/data/legacy.db"), &memStore{}, nil, nil)
	ctx := context.Background()

	marker, err := imp.History(ctx, "/data/legacy.db")
	if err != nil || marker != nil {
		t.Errorf("History without tracker = %+v, %v; want nil, nil", marker, err)
	}
	if err := imp.ClearHistory(ctx, "/data/legacy.db"); err != nil {
		t.Errorf("ClearHistory without tracker failed: %v", err)
	}
}

func TestImporterInspectSource(t *testing.T) {
	path := createLegacyDB(t,
		`CREATE TABLE diary_entries (id TEXT, entry TEXT, date TEXT)`,
		`INSERT INTO diary_entries VALUES ('1', 'text', '1718840400')`,
	)
	imp := NewImporter(importConfig(path), &memStore{}, nil, nil)

	// Empty source path falls back to the configured source.
	report, err := imp.InspectSource(context.Background(), "")
	if err != nil {
		t.Fatalf("InspectSource failed: %v", err)
	}
	if report.EntriesTable != "diary_entries" {
		t.Errorf("EntriesTable = %q, want diary_entries", report.EntriesTable)
	}
	if report.RowCount != 1 {
		t.Errorf("RowCount = %d, want 1", report.RowCount)
	}
	if report.SourcePath != path {
		t.Errorf("SourcePath = %q, want %q", report.SourcePath, path)
	}
}

func TestInspectSourceNoEntriesTable(t *testing.T) {
	path := createLegacyDB(t, `CREATE TABLE android_metadata (locale TEXT)`)

	report, err := InspectSource(context.Background(), path)
	if err != nil {
		t.Fatalf("InspectSource failed: %v", err)
	}
	if report.EntriesTable != "" {
		t.Errorf("EntriesTable = %q, want empty", report.EntriesTable)
	}
	if len(report.Tables) != 1 {
		t.Errorf("Tables = %v, want the metadata table only", report.Tables)
	}
	if report.RowCount != 0 {
		t.Errorf("RowCount = %d, want 0", report.RowCount)
	}
}

// waitFor polls a condition until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never held")
}
