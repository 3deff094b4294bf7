package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestEncodeLogEmitsOnlyCategoryFields(t *testing.T) {
	t.Parallel()

	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []LogEntry{
		{ID: "n1", Category: CategoryNote, CreatedAt: createdAt, FreeText: "calm day", ConsistencyRating: 5, Paths: []Stroke{{{X: 1, Y: 1}}}},
		{ID: "w1", Category: CategoryWalk, CreatedAt: createdAt, FreeText: "ignored"},
		{ID: "b1", Category: CategoryBathroom, CreatedAt: createdAt, ConsistencyRating: 4},
	}

	encoded, err := EncodeLog(entries)
	if err != nil {
		t.Fatalf("EncodeLog returned error: %v", err)
	}

	raw := make([]map[string]any, 0)
	if err := json.Unmarshal(encoded, &raw); err != nil {
		t.Fatalf("decode encoded log: %v", err)
	}

	tests := []struct {
		index   int
		present []string
		absent  []string
	}{
		{index: 0, present: []string{"id", "category", "createdAt", "freeText"}, absent: []string{"paths", "consistencyRating"}},
		{index: 1, present: []string{"id", "category", "createdAt", "paths"}, absent: []string{"freeText", "consistencyRating"}},
		{index: 2, present: []string{"consistencyRating", "freeText"}, absent: []string{"paths"}},
	}
	for _, testCase := range tests {
		for _, key := range testCase.present {
			if _, ok := raw[testCase.index][key]; !ok {
				t.Fatalf("entry %d: expected field %q in %s", testCase.index, key, encoded)
			}
		}
		for _, key := range testCase.absent {
			if _, ok := raw[testCase.index][key]; ok {
				t.Fatalf("entry %d: expected field %q to be absent in %s", testCase.index, key, encoded)
			}
		}
	}
}

func TestDecodeLogRoundTrip(t *testing.T) {
	t.Parallel()

	location := time.FixedZone("UTC+3", 3*60*60)
	entries := []LogEntry{
		{ID: "w1", Category: CategoryWalk, CreatedAt: time.Date(2026, 5, 1, 7, 0, 0, 123456789, location), Paths: []Stroke{{{X: 0, Y: 0}, {X: 10.5, Y: 3.25}}}},
		{ID: "b1", Category: CategoryBathroom, CreatedAt: time.Date(2026, 5, 1, 6, 0, 0, 0, location), ConsistencyRating: 2, FreeText: "after breakfast"},
		{ID: "f1", Category: CategoryFeeding, CreatedAt: time.Date(2026, 4, 30, 20, 0, 0, 0, location), FreeText: "kibble"},
	}

	encoded, err := EncodeLog(entries)
	if err != nil {
		t.Fatalf("EncodeLog returned error: %v", err)
	}
	decoded, err := DecodeLog(encoded)
	if err != nil {
		t.Fatalf("DecodeLog returned error: %v", err)
	}

	if len(decoded) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(decoded))
	}
	for index := range entries {
		want := entries[index].Normalized()
		got := decoded[index]
		if got.ID != want.ID || got.Category != want.Category || !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("entry %d header mismatch: got %#v want %#v", index, got, want)
		}
		if got.ConsistencyRating != want.ConsistencyRating || got.FreeText != want.FreeText {
			t.Fatalf("entry %d payload mismatch: got %#v want %#v", index, got, want)
		}
		if len(got.Paths) != len(want.Paths) {
			t.Fatalf("entry %d paths mismatch: got %#v want %#v", index, got.Paths, want.Paths)
		}
		for strokeIndex := range want.Paths {
			if len(got.Paths[strokeIndex]) != len(want.Paths[strokeIndex]) {
				t.Fatalf("entry %d stroke %d length mismatch", index, strokeIndex)
			}
			for pointIndex := range want.Paths[strokeIndex] {
				if got.Paths[strokeIndex][pointIndex] != want.Paths[strokeIndex][pointIndex] {
					t.Fatalf("entry %d stroke %d point %d mismatch", index, strokeIndex, pointIndex)
				}
			}
		}
	}
}

func TestDecodeLogReadsLegacyFieldNames(t *testing.T) {
	t.Parallel()

	blob := `[
		{"id":"a","type":"poop","timestamp":"2026-01-02T08:00:00.000Z","consistency":5,"note":"firm"},
		{"id":"b","type":"feed","timestamp":"2026-01-02T07:00:00.000Z","note":"chicken"},
		{"id":"c","type":"walk","timestamp":"2026-01-02T06:00:00.000Z","paths":[[{"x":1,"y":2},{"x":3,"y":4}]]}
	]`

	entries, err := DecodeLog([]byte(blob))
	if err != nil {
		t.Fatalf("DecodeLog returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Category != CategoryBathroom || entries[0].ConsistencyRating != 5 || entries[0].FreeText != "firm" {
		t.Fatalf("unexpected bathroom entry: %#v", entries[0])
	}
	if entries[1].Category != CategoryFeeding || entries[1].FreeText != "chicken" {
		t.Fatalf("unexpected feeding entry: %#v", entries[1])
	}
	if entries[2].Category != CategoryWalk || len(entries[2].Paths) != 1 || len(entries[2].Paths[0]) != 2 {
		t.Fatalf("unexpected walk entry: %#v", entries[2])
	}
	if !entries[2].CreatedAt.Equal(time.Date(2026, 1, 2, 6, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected walk timestamp: %s", entries[2].CreatedAt)
	}
}

func TestDecodeLogDefaultsMalformedRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		blob string
	}{
		{name: "missing", blob: `[{"id":"a","category":"bathroom","createdAt":"2026-01-02T08:00:00Z"}]`},
		{name: "out of range", blob: `[{"id":"a","category":"bathroom","createdAt":"2026-01-02T08:00:00Z","consistencyRating":9}]`},
		{name: "fractional", blob: `[{"id":"a","category":"bathroom","createdAt":"2026-01-02T08:00:00Z","consistencyRating":2.5}]`},
		{name: "string", blob: `[{"id":"a","category":"bathroom","createdAt":"2026-01-02T08:00:00Z","consistencyRating":"hard"}]`},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			entries, err := DecodeLog([]byte(testCase.blob))
			if err != nil {
				t.Fatalf("DecodeLog returned error: %v", err)
			}
			if entries[0].ConsistencyRating != DefaultConsistencyRating {
				t.Fatalf("expected default rating, got %d", entries[0].ConsistencyRating)
			}
		})
	}
}

func TestDecodeLogRejectsInvalidEntries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		blob    string
		wantErr error
	}{
		{name: "missing id", blob: `[{"category":"note","createdAt":"2026-01-02T08:00:00Z"}]`, wantErr: ErrEntryMissingID},
		{name: "unknown category", blob: `[{"id":"a","category":"grooming","createdAt":"2026-01-02T08:00:00Z"}]`, wantErr: ErrEntryUnknownType},
		{name: "duplicate id", blob: `[{"id":"a","category":"note"},{"id":"a","category":"bath"}]`, wantErr: ErrEntryDuplicateID},
		{name: "bad timestamp", blob: `[{"id":"a","category":"note","createdAt":"yesterday"}]`, wantErr: ErrEntryBadTimestamp},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := DecodeLog([]byte(testCase.blob))
			if !errors.Is(err, testCase.wantErr) {
				t.Fatalf("expected %v, got %v", testCase.wantErr, err)
			}
		})
	}
}

func TestDecodeLogEmptyBlob(t *testing.T) {
	t.Parallel()

	for _, blob := range []string{"", "  ", "null", "[]"} {
		entries, err := DecodeLog([]byte(blob))
		if err != nil {
			t.Fatalf("DecodeLog(%q) returned error: %v", blob, err)
		}
		if entries == nil || len(entries) != 0 {
			t.Fatalf("DecodeLog(%q) expected empty non-nil log, got %#v", blob, entries)
		}
	}

	encoded, err := EncodeLog(nil)
	if err != nil {
		t.Fatalf("EncodeLog(nil) returned error: %v", err)
	}
	if strings.TrimSpace(string(encoded)) != "[]" {
		t.Fatalf("expected [] for empty log, got %s", encoded)
	}
}
