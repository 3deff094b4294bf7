package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/charts"
	"github.com/terraincognita07/kepler/internal/i18n"
	"github.com/terraincognita07/kepler/internal/services"
)

func newTrendsCommand(state *session) *cobra.Command {
	var (
		chartDir string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Show this week's walks and the bathroom consistency distribution",
		Example: `
kepler trends
kepler trends --chart-dir ./charts --format svg
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chartFormat, err := charts.ParseFormat(format)
			if err != nil {
				return err
			}

			journal, err := state.loadJournal(cmd)
			if err != nil {
				return err
			}
			trends := localizeTrends(journal.Trends(state.now()), state.localizer)

			out := cmd.OutOrStdout()
			printTrends(out, trends, state.localizer)
			if chartDir == "" {
				return nil
			}
			return writeTrendCharts(out, chartDir, chartFormat, trends, state.localizer)
		},
	}

	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "Also write walks and consistency charts into this directory")
	cmd.Flags().StringVar(&format, "format", "png", "Chart format: png or svg")
	return cmd
}

// localizeTrends swaps weekday and level names for the localizer's language.
func localizeTrends(trends services.Trends, localizer i18n.Localizer) services.Trends {
	for index, day := range trends.WeeklyWalks {
		trends.WeeklyWalks[index].Label = localizer.T("weekday." + strings.ToLower(day.Date.Format("Mon")))
	}
	for index, bucket := range trends.Consistency {
		trends.Consistency[index].Name = consistencyLabel(localizer, bucket.Rating)
	}
	return trends
}

func printTrends(out io.Writer, trends services.Trends, localizer i18n.Localizer) {
	bold := color.New(color.Bold)

	_, _ = fmt.Fprintln(out, bold.Sprint(localizer.T("trends.walks.title")))
	walks := uitable.New()
	walks.Separator = "  "
	walks.AddRow(localizer.T("trends.header.day"), localizer.T("trends.header.walks"))
	for _, day := range trends.WeeklyWalks {
		walks.AddRow(fmt.Sprintf("%s %s", day.Label, day.Date.Format("01-02")), strconv.Itoa(day.Count))
	}
	walks.RightAlign(1)
	_, _ = fmt.Fprintln(out, walks)
	_, _ = fmt.Fprintln(out, localizer.Tf("trends.walks.total", trends.WeeklyWalkTotal()))
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintln(out, bold.Sprint(localizer.T("trends.consistency.title")))
	if !trends.HasConsistencyData() {
		_, _ = fmt.Fprintln(out, localizer.T("trends.consistency.empty"))
		return
	}
	levels := uitable.New()
	levels.Separator = "  "
	levels.AddRow(localizer.T("trends.header.level"), localizer.T("trends.header.count"))
	for _, bucket := range trends.Consistency {
		levels.AddRow(fmt.Sprintf("%d %s", bucket.Rating, bucket.Name), strconv.Itoa(bucket.Count))
	}
	levels.RightAlign(1)
	_, _ = fmt.Fprintln(out, levels)
}

func writeTrendCharts(out io.Writer, dir string, format charts.Format, trends services.Trends, localizer i18n.Localizer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}

	walksPath := filepath.Join(dir, "walks."+format.Extension())
	err := writeFile(walksPath, func(w io.Writer) error {
		return charts.RenderWalkHistogram(w, trends.WeeklyWalks, format, charts.Options{Title: localizer.T("trends.walks.title")})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, localizer.Tf("trends.chart.saved", walksPath))

	if !trends.HasConsistencyData() {
		return nil
	}
	consistencyPath := filepath.Join(dir, "consistency."+format.Extension())
	err = writeFile(consistencyPath, func(w io.Writer) error {
		return charts.RenderConsistency(w, trends.Consistency, format, charts.Options{Title: localizer.T("trends.consistency.title")})
	})
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, localizer.Tf("trends.chart.saved", consistencyPath))
	return nil
}

// writeFile renders into path, removing the file again if render fails.
func writeFile(path string, render func(io.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := render(file); err != nil {
		return err
	}
	return nil
}
