package services

import "github.com/terraincognita07/kepler/internal/models"

// EntryPatch is a partial payload update. Nil fields are left untouched.
type EntryPatch struct {
	Paths             *[]models.Stroke `json:"paths,omitempty"`
	ConsistencyRating *int             `json:"consistencyRating,omitempty"`
	FreeText          *string          `json:"freeText,omitempty"`
}

func PatchPaths(paths []models.Stroke) EntryPatch {
	cloned := models.CloneStrokes(paths)
	return EntryPatch{Paths: &cloned}
}

func PatchConsistencyRating(rating int) EntryPatch {
	return EntryPatch{ConsistencyRating: &rating}
}

func PatchFreeText(text string) EntryPatch {
	return EntryPatch{FreeText: &text}
}

func (patch EntryPatch) IsEmpty() bool {
	return patch.Paths == nil && patch.ConsistencyRating == nil && patch.FreeText == nil
}

// ApplyTo merges the fields the entry's category owns. Fields of other
// categories and out-of-range ratings are dropped without error.
func (patch EntryPatch) ApplyTo(entry models.LogEntry) models.LogEntry {
	merged := entry.Clone()
	if patch.Paths != nil && entry.Category.HasPaths() {
		merged.Paths = models.CloneStrokes(*patch.Paths)
	}
	if patch.ConsistencyRating != nil && entry.Category.HasConsistencyRating() && models.IsValidConsistencyRating(*patch.ConsistencyRating) {
		merged.ConsistencyRating = *patch.ConsistencyRating
	}
	if patch.FreeText != nil && entry.Category.HasFreeText() {
		merged.FreeText = *patch.FreeText
	}
	return merged
}
