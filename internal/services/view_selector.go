package services

import (
	"strings"
	"sync"
)

type ViewMode string

const (
	ViewLog    ViewMode = "log"
	ViewTrends ViewMode = "trends"
)

func ParseViewMode(raw string) (ViewMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "log", "":
		return ViewLog, true
	case "trends", "stats":
		return ViewTrends, true
	default:
		return "", false
	}
}

// ViewSelector switches between the log listing and the trends view.
type ViewSelector struct {
	mu   sync.Mutex
	mode ViewMode
}

func NewViewSelector() *ViewSelector {
	return &ViewSelector{mode: ViewLog}
}

func (selector *ViewSelector) Current() ViewMode {
	selector.mu.Lock()
	defer selector.mu.Unlock()
	return selector.mode
}

func (selector *ViewSelector) Select(mode ViewMode) bool {
	if mode != ViewLog && mode != ViewTrends {
		return false
	}
	selector.mu.Lock()
	defer selector.mu.Unlock()
	selector.mode = mode
	return true
}

func (selector *ViewSelector) Toggle() ViewMode {
	selector.mu.Lock()
	defer selector.mu.Unlock()
	if selector.mode == ViewTrends {
		selector.mode = ViewLog
	} else {
		selector.mode = ViewTrends
	}
	return selector.mode
}
