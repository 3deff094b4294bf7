package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEntryMissingID    = errors.New("log entry missing id")
	ErrEntryUnknownType  = errors.New("log entry has unknown category")
	ErrEntryDuplicateID  = errors.New("log entry id is duplicated")
	ErrEntryBadTimestamp = errors.New("log entry has invalid createdAt")
)

type logEntryWire struct {
	ID                string    `json:"id"`
	Category          Category  `json:"category"`
	CreatedAt         time.Time `json:"createdAt"`
	Paths             *[]Stroke `json:"paths,omitempty"`
	ConsistencyRating *int      `json:"consistencyRating,omitempty"`
	FreeText          *string   `json:"freeText,omitempty"`
}

// legacyLogEntryWire covers the field names the first web client stored.
type legacyLogEntryWire struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	CreatedAt   string          `json:"createdAt"`
	Timestamp   string          `json:"timestamp"`
	Paths       []Stroke        `json:"paths"`
	Rating      json.RawMessage `json:"consistencyRating"`
	Consistency json.RawMessage `json:"consistency"`
	FreeText    *string         `json:"freeText"`
	Note        *string         `json:"note"`
}

func (entry LogEntry) MarshalJSON() ([]byte, error) {
	normalized := entry.Normalized()
	wire := logEntryWire{
		ID:        normalized.ID,
		Category:  normalized.Category,
		CreatedAt: normalized.CreatedAt,
	}
	if normalized.Category.HasPaths() {
		paths := normalized.Paths
		wire.Paths = &paths
	}
	if normalized.Category.HasConsistencyRating() {
		rating := normalized.ConsistencyRating
		wire.ConsistencyRating = &rating
	}
	if normalized.Category.HasFreeText() {
		text := normalized.FreeText
		wire.FreeText = &text
	}
	return json.Marshal(wire)
}

func (entry *LogEntry) UnmarshalJSON(data []byte) error {
	wire := legacyLogEntryWire{}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	id := strings.TrimSpace(wire.ID)
	if id == "" {
		return ErrEntryMissingID
	}

	category, ok := ParseCategory(firstNonEmpty(wire.Category, wire.Type))
	if !ok {
		return fmt.Errorf("%w: %q", ErrEntryUnknownType, firstNonEmpty(wire.Category, wire.Type))
	}

	createdAt := time.Time{}
	if rawTimestamp := firstNonEmpty(wire.CreatedAt, wire.Timestamp); rawTimestamp != "" {
		parsed, err := time.Parse(time.RFC3339Nano, rawTimestamp)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrEntryBadTimestamp, rawTimestamp)
		}
		createdAt = parsed
	}

	decoded := LogEntry{
		ID:                id,
		Category:          category,
		CreatedAt:         createdAt,
		Paths:             wire.Paths,
		ConsistencyRating: decodeRating(wire.Rating, wire.Consistency),
	}
	if decoded.Paths == nil && category.HasPaths() {
		decoded.Paths = []Stroke{}
	}
	if wire.FreeText != nil {
		decoded.FreeText = *wire.FreeText
	} else if wire.Note != nil {
		decoded.FreeText = *wire.Note
	}

	*entry = decoded.Normalized()
	return nil
}

// decodeRating returns 0 for anything that is not an integer level; the
// caller's normalization turns that into the default rating.
func decodeRating(candidates ...json.RawMessage) int {
	for _, raw := range candidates {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return 0
		}
		rating := int(value)
		if float64(rating) != value || !IsValidConsistencyRating(rating) {
			return 0
		}
		return rating
	}
	return 0
}

// EncodeLog serializes entries in the given order (newest first).
func EncodeLog(entries []LogEntry) ([]byte, error) {
	if entries == nil {
		entries = []LogEntry{}
	}
	return json.Marshal(entries)
}

// DecodeLog parses a stored log blob. An empty or null blob is an empty log.
func DecodeLog(data []byte) ([]LogEntry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []LogEntry{}, nil
	}

	entries := make([]LogEntry, 0)
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}

	if err := ValidateLog(entries); err != nil {
		return nil, fmt.Errorf("decode log: %w", err)
	}
	return entries, nil
}

// ValidateLog is the one rule for accepting a persisted log: every entry
// has an id and a known category, and no id appears twice. A log that
// breaks it is rejected as a whole.
func ValidateLog(entries []LogEntry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.ID) == "" {
			return ErrEntryMissingID
		}
		if !entry.Category.Valid() {
			return fmt.Errorf("%w: %q", ErrEntryUnknownType, entry.Category)
		}
		if _, exists := seen[entry.ID]; exists {
			return fmt.Errorf("%w: %s", ErrEntryDuplicateID, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
