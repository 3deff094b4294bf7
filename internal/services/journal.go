package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/terraincognita07/kepler/internal/models"
)

var ErrNoLogLoader = errors.New("log loader is required")

type LogSnapshotQueue interface {
	Enqueue(entries []models.LogEntry)
}

type JournalOptions struct {
	Location *time.Location
	Clock    func() time.Time
	IDSource func() string
	Syncer   LogSnapshotQueue
	Logger   *slog.Logger
}

// JournalView is what the presentation layer draws for the selected mode.
// Entries is set in log mode, Trends in trends mode.
type JournalView struct {
	Mode    ViewMode
	Entries []models.LogEntry
	Trends  *Trends
}

// Journal is one user's session: the entry store, its capture sessions, the
// trends cache and the view selector. Every effective mutation hands a full
// snapshot to the syncer.
type Journal struct {
	store    *EntryStore
	trends   *TrendsCache
	view     *ViewSelector
	syncer   LogSnapshotQueue
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time

	capturesMu sync.Mutex
	captures   map[string]*CaptureSession
}

func NewJournal(options JournalOptions) *Journal {
	location := options.Location
	if location == nil {
		location = time.Local
	}
	now := options.Clock
	if now == nil {
		now = time.Now
	}
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Journal{
		store:    NewEntryStore(WithEntryClock(now), WithEntryIDSource(options.IDSource)),
		trends:   NewTrendsCache(location),
		view:     NewViewSelector(),
		syncer:   options.Syncer,
		logger:   logger,
		location: location,
		now:      now,
		captures: make(map[string]*CaptureSession),
	}
}

// Load replaces the journal with the persisted log. On failure the journal
// keeps its current entries.
func (journal *Journal) Load(ctx context.Context, loader LogLoader) error {
	if loader == nil {
		return ErrNoLogLoader
	}
	entries, err := loader.LoadLog(ctx)
	if err != nil {
		journal.logger.Warn("journal load failed", "error", err)
		return fmt.Errorf("load journal: %w", err)
	}

	if err := journal.store.Replace(entries); err != nil {
		journal.logger.Warn("journal load rejected", "error", err)
		return fmt.Errorf("load journal: %w", err)
	}
	journal.capturesMu.Lock()
	for id := range journal.captures {
		if entry, ok := journal.store.Get(id); !ok || entry.Category != models.CategoryWalk {
			delete(journal.captures, id)
		}
	}
	journal.capturesMu.Unlock()

	journal.logger.Info("journal loaded", "entries", journal.store.Len())
	return nil
}

func (journal *Journal) Create(category models.Category) (models.LogEntry, error) {
	entry, err := journal.store.Create(category)
	if err != nil {
		return models.LogEntry{}, err
	}
	journal.enqueueSnapshot()
	return entry, nil
}

func (journal *Journal) Update(id string, patch EntryPatch) bool {
	if !journal.store.Update(id, patch) {
		return false
	}
	journal.enqueueSnapshot()
	return true
}

func (journal *Journal) Delete(id string) bool {
	if !journal.store.Delete(id) {
		return false
	}
	journal.capturesMu.Lock()
	delete(journal.captures, id)
	journal.capturesMu.Unlock()

	journal.enqueueSnapshot()
	return true
}

func (journal *Journal) Get(id string) (models.LogEntry, bool) {
	return journal.store.Get(id)
}

func (journal *Journal) Entries() []models.LogEntry {
	return journal.store.List()
}

// Capture returns the drawing session of a walk entry. Repeated calls return
// the same session until the entry is deleted. The session draws onto the
// stored strokes, so path updates and loads are seen by the next gesture.
func (journal *Journal) Capture(id string) (*CaptureSession, bool) {
	entry, ok := journal.store.Get(id)
	if !ok || entry.Category != models.CategoryWalk {
		return nil, false
	}

	journal.capturesMu.Lock()
	defer journal.capturesMu.Unlock()

	if session, ok := journal.captures[id]; ok {
		return session, true
	}
	session := NewBoundCaptureSession(entryStrokes{journal: journal, id: id})
	journal.captures[id] = session
	return session, true
}

// entryStrokes binds a capture session to the paths of one stored walk.
type entryStrokes struct {
	journal *Journal
	id      string
}

func (source entryStrokes) Strokes() ([]models.Stroke, bool) {
	entry, ok := source.journal.store.Get(source.id)
	if !ok || entry.Category != models.CategoryWalk {
		return nil, false
	}
	return entry.Paths, true
}

func (source entryStrokes) SetStrokes(paths []models.Stroke) {
	source.journal.Update(source.id, PatchPaths(paths))
}

// Trends aggregates the current listing. A zero now means the journal clock.
func (journal *Journal) Trends(now time.Time) Trends {
	if now.IsZero() {
		now = journal.now()
	}
	return journal.trends.Aggregate(journal.store.List(), now)
}

func (journal *Journal) CurrentView() ViewMode {
	return journal.view.Current()
}

func (journal *Journal) SelectView(mode ViewMode) bool {
	return journal.view.Select(mode)
}

func (journal *Journal) ToggleView() ViewMode {
	return journal.view.Toggle()
}

func (journal *Journal) View(now time.Time) JournalView {
	mode := journal.view.Current()
	if mode == ViewTrends {
		trends := journal.Trends(now)
		return JournalView{Mode: mode, Trends: &trends}
	}
	return JournalView{Mode: mode, Entries: journal.store.List()}
}

func (journal *Journal) Location() *time.Location {
	return journal.location
}

func (journal *Journal) enqueueSnapshot() {
	if journal.syncer == nil {
		return
	}
	journal.syncer.Enqueue(journal.store.List())
}
