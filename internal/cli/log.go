package cli

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/i18n"
	"github.com/terraincognita07/kepler/internal/models"
)

const maxNoteRunes = 48

func newLogCommand(state *session) *cobra.Command {
	var (
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "List journal entries, newest first",
		Example: `
kepler log
kepler log --category walk --limit 5
kepler log --lang ru
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter models.Category
			if category != "" {
				parsed, ok := models.ParseCategory(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				filter = parsed
			}

			journal, err := state.loadJournal(cmd)
			if err != nil {
				return err
			}

			entries := make([]models.LogEntry, 0, limit)
			for _, entry := range journal.Entries() {
				if filter != "" && entry.Category != filter {
					continue
				}
				entries = append(entries, entry)
				if limit > 0 && len(entries) == limit {
					break
				}
			}

			printLog(cmd.OutOrStdout(), entries, state.localizer, journal.Location(), state.now())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many entries (0 = all)")
	cmd.Flags().StringVar(&category, "category", "", "Only show one category: walk, bathroom, feeding, bath or note")
	return cmd
}

func printLog(out io.Writer, entries []models.LogEntry, localizer i18n.Localizer, location *time.Location, now time.Time) {
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(out, localizer.T("log.empty"))
		return
	}

	bold := color.New(color.Bold)
	table := uitable.New()
	table.Separator = "  "
	table.MaxColWidth = 60
	table.AddRow(
		bold.Sprint(localizer.T("log.header.when")),
		bold.Sprint(localizer.T("log.header.category")),
		bold.Sprint(localizer.T("log.header.details")),
		bold.Sprint(localizer.T("log.header.id")),
	)
	for _, entry := range entries {
		table.AddRow(
			entryWhen(entry.CreatedAt, location, now),
			categoryColor(entry.Category).Sprint(categoryLabel(localizer, entry.Category)),
			entryDetails(localizer, entry),
			shortID(entry.ID),
		)
	}
	_, _ = fmt.Fprintln(out, table)
}

func entryWhen(createdAt time.Time, location *time.Location, now time.Time) string {
	if createdAt.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)",
		createdAt.In(location).Format("2006-01-02 15:04"),
		humanize.RelTime(createdAt, now, "ago", "from now"),
	)
}

func entryDetails(localizer i18n.Localizer, entry models.LogEntry) string {
	parts := make([]string, 0, 2)
	switch entry.Category {
	case models.CategoryWalk:
		parts = append(parts, localizer.Tf("log.details.strokes", len(entry.Paths)))
	case models.CategoryBathroom:
		parts = append(parts, localizer.Tf("log.details.rating", entry.ConsistencyRating, consistencyLabel(localizer, entry.ConsistencyRating)))
	}
	if note := strings.TrimSpace(entry.FreeText); note != "" {
		parts = append(parts, truncateRunes(note, maxNoteRunes))
	}
	return strings.Join(parts, "; ")
}

func categoryLabel(localizer i18n.Localizer, category models.Category) string {
	return localizer.T("category." + string(category))
}

func consistencyLabel(localizer i18n.Localizer, rating int) string {
	return localizer.T(fmt.Sprintf("consistency.%d", rating))
}

func categoryColor(category models.Category) *color.Color {
	switch category {
	case models.CategoryWalk:
		return color.New(color.FgGreen)
	case models.CategoryBathroom:
		return color.New(color.FgYellow)
	case models.CategoryFeeding:
		return color.New(color.FgCyan)
	case models.CategoryBath:
		return color.New(color.FgBlue)
	default:
		return color.New(color.FgWhite)
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncateRunes(value string, limit int) string {
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	runes := []rune(value)
	return string(runes[:limit-1]) + "…"
}
