package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/terraincognita07/kepler/internal/models"
)

var ErrUnknownCategory = errors.New("unknown entry category")

const maxIDSourceAttempts = 16

// EntryStore holds the session's journal, newest entry first. Listing order
// is insertion order; createdAt is never used for sorting.
type EntryStore struct {
	mu      sync.RWMutex
	entries []models.LogEntry
	issued  map[string]struct{}
	now     func() time.Time
	newID   func() string
}

type EntryStoreOption func(*EntryStore)

func WithEntryClock(now func() time.Time) EntryStoreOption {
	return func(store *EntryStore) {
		if now != nil {
			store.now = now
		}
	}
}

func WithEntryIDSource(newID func() string) EntryStoreOption {
	return func(store *EntryStore) {
		if newID != nil {
			store.newID = newID
		}
	}
}

func NewEntryStore(options ...EntryStoreOption) *EntryStore {
	store := &EntryStore{
		entries: make([]models.LogEntry, 0),
		issued:  make(map[string]struct{}),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, option := range options {
		option(store)
	}
	return store
}

func (store *EntryStore) Create(category models.Category) (models.LogEntry, error) {
	if !category.Valid() {
		return models.LogEntry{}, ErrUnknownCategory
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	entry := models.NewLogEntry(store.freshIDLocked(), category, store.now())
	store.entries = append([]models.LogEntry{entry}, store.entries...)
	return entry.Clone(), nil
}

// Update merges the patch into the entry with the given id. It reports
// whether the entry exists; unknown ids are ignored.
func (store *EntryStore) Update(id string, patch EntryPatch) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(id)
	if index < 0 {
		return false
	}
	store.entries[index] = patch.ApplyTo(store.entries[index])
	return true
}

func (store *EntryStore) Delete(id string) bool {
	store.mu.Lock()
	defer store.mu.Unlock()

	index := store.indexLocked(id)
	if index < 0 {
		return false
	}
	store.entries = append(store.entries[:index:index], store.entries[index+1:]...)
	return true
}

func (store *EntryStore) List() []models.LogEntry {
	store.mu.RLock()
	defer store.mu.RUnlock()

	result := make([]models.LogEntry, len(store.entries))
	for index, entry := range store.entries {
		result[index] = entry.Clone()
	}
	return result
}

func (store *EntryStore) Get(id string) (models.LogEntry, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	index := store.indexLocked(id)
	if index < 0 {
		return models.LogEntry{}, false
	}
	return store.entries[index].Clone(), true
}

func (store *EntryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.entries)
}

// Replace swaps the whole journal for a persisted one, keeping its order.
// A log rejected by models.ValidateLog leaves the store unchanged.
func (store *EntryStore) Replace(entries []models.LogEntry) error {
	if err := models.ValidateLog(entries); err != nil {
		return err
	}

	replaced := make([]models.LogEntry, 0, len(entries))
	for _, entry := range entries {
		replaced = append(replaced, entry.Normalized())
	}

	store.mu.Lock()
	defer store.mu.Unlock()
	for _, entry := range replaced {
		store.issued[entry.ID] = struct{}{}
	}
	store.entries = replaced
	return nil
}

func (store *EntryStore) indexLocked(id string) int {
	for index := range store.entries {
		if store.entries[index].ID == id {
			return index
		}
	}
	return -1
}

// freshIDLocked draws from the configured id source and falls back to a
// random UUID when the source keeps returning blank or issued ids.
func (store *EntryStore) freshIDLocked() string {
	for attempt := 0; ; attempt++ {
		newID := store.newID
		if attempt >= maxIDSourceAttempts {
			newID = uuid.NewString
		}
		id := newID()
		if id == "" {
			continue
		}
		if _, used := store.issued[id]; used {
			continue
		}
		store.issued[id] = struct{}{}
		return id
	}
}
