package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/charts"
	"github.com/terraincognita07/kepler/internal/models"
)

var (
	errEntryNotFound  = errors.New("entry not found")
	errAmbiguousEntry = errors.New("entry id prefix is ambiguous")
	errNotAWalk       = errors.New("entry is not a walk")
)

func newRouteCommand(state *session) *cobra.Command {
	var (
		out    string
		format string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "route ENTRY_ID",
		Short: "Render the route drawn on a walk entry",
		Example: `
kepler route 3f2a9c1e --out walk.png
kepler route 3f2a9c1e --out walk.svg --width 800 --height 600
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			chartFormat, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}

			journal, err := state.loadJournal(cmd)
			if err != nil {
				return err
			}
			entry, err := findEntry(journal.Entries(), args[0])
			if err != nil {
				return err
			}
			if entry.Category != models.CategoryWalk {
				return fmt.Errorf("%w: %s is a %s entry", errNotAWalk, entry.ID, entry.Category)
			}

			err = writeFile(out, func(w io.Writer) error {
				return charts.RenderRoute(w, entry.Paths, width, height, chartFormat)
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), state.localizer.Tf("route.saved", out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file")
	cmd.Flags().StringVar(&format, "format", "", "png or svg (default: from the --out extension)")
	cmd.Flags().IntVar(&width, "width", 640, "Canvas width in pixels")
	cmd.Flags().IntVar(&height, "height", 480, "Canvas height in pixels")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// findEntry matches a full id or a unique id prefix, as printed by kepler log.
func findEntry(entries []models.LogEntry, id string) (models.LogEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.LogEntry{}, errEntryNotFound
	}

	var matches []models.LogEntry
	for _, entry := range entries {
		if entry.ID == id {
			return entry, nil
		}
		if strings.HasPrefix(entry.ID, id) {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 0:
		return models.LogEntry{}, fmt.Errorf("%w: %s", errEntryNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return models.LogEntry{}, fmt.Errorf("%w: %s matches %d entries", errAmbiguousEntry, id, len(matches))
	}
}
