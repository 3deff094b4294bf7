package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/terraincognita07/kepler/internal/models"
)

var ErrSyncerNotStarted = errors.New("log syncer not started")

type LogLoader interface {
	LoadLog(ctx context.Context) ([]models.LogEntry, error)
}

type LogSaver interface {
	SaveLog(ctx context.Context, entries []models.LogEntry) error
}

type LogSyncerOptions struct {
	// OnError is told about every failed write. It runs on the syncer's
	// goroutine and must not block for long.
	OnError      func(error)
	Logger       *slog.Logger
	WriteTimeout time.Duration
}

// LogSyncer writes full journal snapshots in the background. Enqueue never
// blocks; a snapshot waiting to be written is replaced by a newer one. Failed
// writes are reported and not retried.
type LogSyncer struct {
	saver        LogSaver
	onError      func(error)
	logger       *slog.Logger
	writeTimeout time.Duration

	mu       sync.Mutex
	started  bool
	latest   []models.LogEntry
	queued   uint64
	attempts uint64
	settled  chan struct{}
	wake     chan struct{}
}

func NewLogSyncer(saver LogSaver, options LogSyncerOptions) *LogSyncer {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	writeTimeout := options.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &LogSyncer{
		saver:        saver,
		onError:      options.OnError,
		logger:       logger,
		writeTimeout: writeTimeout,
		settled:      make(chan struct{}),
		wake:         make(chan struct{}, 1),
	}
}

// Start runs the writer until ctx is cancelled.
func (syncer *LogSyncer) Start(ctx context.Context) {
	syncer.mu.Lock()
	if syncer.started {
		syncer.mu.Unlock()
		return
	}
	syncer.started = true
	syncer.mu.Unlock()

	go syncer.run(ctx)
}

func (syncer *LogSyncer) Enqueue(entries []models.LogEntry) {
	snapshot := make([]models.LogEntry, len(entries))
	for index, entry := range entries {
		snapshot[index] = entry.Clone()
	}

	syncer.mu.Lock()
	syncer.latest = snapshot
	syncer.queued++
	syncer.mu.Unlock()

	select {
	case syncer.wake <- struct{}{}:
	default:
	}
}

// Flush waits until the most recent snapshot has been attempted.
func (syncer *LogSyncer) Flush(ctx context.Context) error {
	for {
		syncer.mu.Lock()
		if !syncer.started {
			syncer.mu.Unlock()
			return ErrSyncerNotStarted
		}
		if syncer.attempts >= syncer.queued {
			syncer.mu.Unlock()
			return nil
		}
		settled := syncer.settled
		syncer.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (syncer *LogSyncer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-syncer.wake:
		}

		syncer.mu.Lock()
		snapshot := syncer.latest
		version := syncer.queued
		syncer.latest = nil
		syncer.mu.Unlock()

		if snapshot != nil {
			syncer.write(ctx, snapshot)
		}

		syncer.mu.Lock()
		if version > syncer.attempts {
			syncer.attempts = version
		}
		if syncer.attempts >= syncer.queued {
			close(syncer.settled)
			syncer.settled = make(chan struct{})
		}
		syncer.mu.Unlock()
	}
}

func (syncer *LogSyncer) write(ctx context.Context, snapshot []models.LogEntry) {
	writeCtx, cancel := context.WithTimeout(ctx, syncer.writeTimeout)
	defer cancel()

	if err := syncer.saver.SaveLog(writeCtx, snapshot); err != nil {
		syncer.logger.Warn("journal sync failed", "entries", len(snapshot), "error", err)
		if syncer.onError != nil {
			syncer.onError(err)
		}
		return
	}
	syncer.logger.Debug("journal synced", "entries", len(snapshot))
}
