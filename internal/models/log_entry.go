package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryWalk     Category = "walk"
	CategoryBathroom Category = "bathroom"
	CategoryFeeding  Category = "feeding"
	CategoryBath     Category = "bath"
	CategoryNote     Category = "note"
)

const DefaultConsistencyRating = 3

func Categories() []Category {
	return []Category{CategoryWalk, CategoryBathroom, CategoryFeeding, CategoryBath, CategoryNote}
}

// ParseCategory accepts the canonical names plus the short names older
// clients wrote ("poop", "feed").
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "walk":
		return CategoryWalk, true
	case "bathroom", "poop":
		return CategoryBathroom, true
	case "feeding", "feed":
		return CategoryFeeding, true
	case "bath":
		return CategoryBath, true
	case "note":
		return CategoryNote, true
	default:
		return "", false
	}
}

func (category Category) Valid() bool {
	for _, candidate := range Categories() {
		if candidate == category {
			return true
		}
	}
	return false
}

func (category Category) HasPaths() bool {
	return category == CategoryWalk
}

func (category Category) HasConsistencyRating() bool {
	return category == CategoryBathroom
}

func (category Category) HasFreeText() bool {
	switch category {
	case CategoryBathroom, CategoryFeeding, CategoryBath, CategoryNote:
		return true
	default:
		return false
	}
}

// Point is a position in the walk card's local canvas space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Stroke []Point

type LogEntry struct {
	ID                string
	Category          Category
	CreatedAt         time.Time
	Paths             []Stroke
	ConsistencyRating int
	FreeText          string
}

// NewLogEntry builds an entry with the default payload for its category.
func NewLogEntry(id string, category Category, createdAt time.Time) LogEntry {
	entry := LogEntry{
		ID:        id,
		Category:  category,
		CreatedAt: createdAt.Round(0),
	}
	if category.HasPaths() {
		entry.Paths = []Stroke{}
	}
	if category.HasConsistencyRating() {
		entry.ConsistencyRating = DefaultConsistencyRating
	}
	return entry
}

func IsValidConsistencyRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// Normalized clears every payload field the category does not own and
// fills category defaults.
func (entry LogEntry) Normalized() LogEntry {
	normalized := LogEntry{
		ID:        entry.ID,
		Category:  entry.Category,
		CreatedAt: entry.CreatedAt.Round(0),
	}
	if entry.Category.HasPaths() {
		normalized.Paths = CloneStrokes(entry.Paths)
	}
	if entry.Category.HasConsistencyRating() {
		normalized.ConsistencyRating = entry.ConsistencyRating
		if !IsValidConsistencyRating(normalized.ConsistencyRating) {
			normalized.ConsistencyRating = DefaultConsistencyRating
		}
	}
	if entry.Category.HasFreeText() {
		normalized.FreeText = entry.FreeText
	}
	return normalized
}

func (entry LogEntry) Clone() LogEntry {
	cloned := entry
	if entry.Paths != nil {
		cloned.Paths = CloneStrokes(entry.Paths)
	}
	return cloned
}

func CloneStroke(stroke Stroke) Stroke {
	if stroke == nil {
		return nil
	}
	cloned := make(Stroke, len(stroke))
	copy(cloned, stroke)
	return cloned
}

func CloneStrokes(strokes []Stroke) []Stroke {
	cloned := make([]Stroke, len(strokes))
	for index, stroke := range strokes {
		cloned[index] = CloneStroke(stroke)
	}
	return cloned
}
