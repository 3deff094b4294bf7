package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/terraincognita07/kepler/internal/models"
)

const exportDateLayout = "2006-01-02"

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

var ExportCSVHeaders = []string{
	"Date",
	"Time",
	"Category",
	"Consistency",
	"Strokes",
	"Notes",
	"ID",
}

// ExportRange bounds an export by local calendar day, both ends inclusive.
// A nil bound is open.
type ExportRange struct {
	From *time.Time
	To   *time.Time
}

type ExportSummary struct {
	TotalEntries int
	HasData      bool
	DateFrom     string
	DateTo       string
}

func ParseExportRange(rawFrom string, rawTo string, location *time.Location) (ExportRange, error) {
	from, err := parseExportDay(rawFrom, location)
	if err != nil {
		return ExportRange{}, ErrExportFromDateInvalid
	}
	to, err := parseExportDay(rawTo, location)
	if err != nil {
		return ExportRange{}, ErrExportToDateInvalid
	}
	if from != nil && to != nil && to.Before(*from) {
		return ExportRange{}, ErrExportRangeInvalid
	}
	return ExportRange{From: from, To: to}, nil
}

func parseExportDay(raw string, location *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation(exportDateLayout, raw, location)
	if err != nil {
		return nil, err
	}
	day := DateAtLocation(parsed, location)
	return &day, nil
}

func (exportRange ExportRange) contains(day time.Time) bool {
	if exportRange.From != nil && day.Before(*exportRange.From) {
		return false
	}
	if exportRange.To != nil && day.After(*exportRange.To) {
		return false
	}
	return true
}

// SelectExportEntries keeps listing order and drops entries whose local day
// falls outside exportRange. Entries without a timestamp only pass an open
// range.
func SelectExportEntries(entries []models.LogEntry, exportRange ExportRange, location *time.Location) []models.LogEntry {
	selected := make([]models.LogEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.CreatedAt.IsZero() {
			if exportRange.From == nil && exportRange.To == nil {
				selected = append(selected, entry.Clone())
			}
			continue
		}
		if exportRange.contains(DateAtLocation(entry.CreatedAt, location)) {
			selected = append(selected, entry.Clone())
		}
	}
	return selected
}

func BuildExportSummary(entries []models.LogEntry, location *time.Location) ExportSummary {
	var first, last time.Time
	for _, entry := range entries {
		if entry.CreatedAt.IsZero() {
			continue
		}
		if first.IsZero() || entry.CreatedAt.Before(first) {
			first = entry.CreatedAt
		}
		if last.IsZero() || entry.CreatedAt.After(last) {
			last = entry.CreatedAt
		}
	}

	summary := ExportSummary{TotalEntries: len(entries), HasData: len(entries) > 0}
	if !first.IsZero() {
		summary.DateFrom = DateAtLocation(first, location).Format(exportDateLayout)
		summary.DateTo = DateAtLocation(last, location).Format(exportDateLayout)
	}
	return summary
}

// BuildExportCSVRows renders one row per entry under ExportCSVHeaders.
// Columns a category does not own stay empty.
func BuildExportCSVRows(entries []models.LogEntry, location *time.Location) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		var date, clock string
		if !entry.CreatedAt.IsZero() {
			local := entry.CreatedAt.In(location)
			date = local.Format(exportDateLayout)
			clock = local.Format("15:04")
		}

		var consistency, strokes string
		if entry.Category.HasConsistencyRating() {
			if level, ok := models.ConsistencyLevelFor(entry.ConsistencyRating); ok {
				consistency = fmt.Sprintf("%d %s", level.Rating, level.Name)
			}
		}
		if entry.Category.HasPaths() {
			strokes = strconv.Itoa(len(entry.Paths))
		}

		rows = append(rows, []string{
			date,
			clock,
			string(entry.Category),
			consistency,
			strokes,
			entry.FreeText,
			entry.ID,
		})
	}
	return rows
}
