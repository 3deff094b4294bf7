package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/terraincognita07/kepler/internal/models"
)

type stubLogStore struct {
	mu      sync.Mutex
	saved   [][]models.LogEntry
	saveErr error
	gate    chan struct{}
	loaded  []models.LogEntry
	loadErr error
}

func (store *stubLogStore) SaveLog(ctx context.Context, entries []models.LogEntry) error {
	if store.gate != nil {
		select {
		case <-store.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saved = append(store.saved, entries)
	return store.saveErr
}

func (store *stubLogStore) LoadLog(context.Context) ([]models.LogEntry, error) {
	if store.loadErr != nil {
		return nil, store.loadErr
	}
	return store.loaded, nil
}

func (store *stubLogStore) snapshots() [][]models.LogEntry {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([][]models.LogEntry(nil), store.saved...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startSyncer(t *testing.T, saver LogSaver, options LogSyncerOptions) *LogSyncer {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	options.Logger = discardLogger()
	syncer := NewLogSyncer(saver, options)
	syncer.Start(ctx)
	return syncer
}

func flushSyncer(t *testing.T, syncer *LogSyncer) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := syncer.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

func TestLogSyncerWritesSnapshot(t *testing.T) {
	store := &stubLogStore{}
	syncer := startSyncer(t, store, LogSyncerOptions{})
	entries := []models.LogEntry{models.NewLogEntry("n1", models.CategoryNote, time.Now())}

	syncer.Enqueue(entries)
	entries[0].FreeText = "changed after enqueue"
	flushSyncer(t, syncer)

	saved := store.snapshots()
	if len(saved) != 1 || len(saved[0]) != 1 {
		t.Fatalf("expected one snapshot with one entry, got %#v", saved)
	}
	if saved[0][0].FreeText != "" {
		t.Fatal("expected snapshot to be copied at enqueue time")
	}
}

func TestLogSyncerCoalescesPendingSnapshots(t *testing.T) {
	store := &stubLogStore{gate: make(chan struct{})}
	syncer := startSyncer(t, store, LogSyncerOptions{})
	now := time.Now()

	syncer.Enqueue([]models.LogEntry{models.NewLogEntry("a", models.CategoryNote, now)})
	// Let the worker pick up the first snapshot and block in SaveLog.
	time.Sleep(20 * time.Millisecond)
	for _, id := range []string{"b", "c", "d"} {
		syncer.Enqueue([]models.LogEntry{models.NewLogEntry(id, models.CategoryNote, now)})
	}
	close(store.gate)
	flushSyncer(t, syncer)

	saved := store.snapshots()
	if len(saved) > 2 {
		t.Fatalf("expected pending snapshots to coalesce, got %d writes", len(saved))
	}
	last := saved[len(saved)-1]
	if last[0].ID != "d" {
		t.Fatalf("expected last write to win, got %s", last[0].ID)
	}
}

func TestLogSyncerReportsFailuresWithoutRetry(t *testing.T) {
	saveErr := errors.New("backend unavailable")
	store := &stubLogStore{saveErr: saveErr}

	var mu sync.Mutex
	var reported []error
	syncer := startSyncer(t, store, LogSyncerOptions{
		OnError: func(err error) {
			mu.Lock()
			defer mu.Unlock()
			reported = append(reported, err)
		},
	})

	syncer.Enqueue([]models.LogEntry{})
	flushSyncer(t, syncer)

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 || !errors.Is(reported[0], saveErr) {
		t.Fatalf("expected one reported failure, got %#v", reported)
	}
	if len(store.snapshots()) != 1 {
		t.Fatalf("expected exactly one attempt, got %d", len(store.snapshots()))
	}
}

func TestLogSyncerFlushRequiresStart(t *testing.T) {
	syncer := NewLogSyncer(&stubLogStore{}, LogSyncerOptions{Logger: discardLogger()})

	if err := syncer.Flush(context.Background()); !errors.Is(err, ErrSyncerNotStarted) {
		t.Fatalf("expected ErrSyncerNotStarted, got %v", err)
	}
}

func TestLogSyncerFlushWithNothingQueued(t *testing.T) {
	syncer := startSyncer(t, &stubLogStore{}, LogSyncerOptions{})
	flushSyncer(t, syncer)
}
