package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/kepler/internal/models"
	"github.com/terraincognita07/kepler/internal/services"
)

var errUnknownExportFormat = errors.New("unknown export format")

func newExportCommand(state *session) *cobra.Command {
	var (
		from   string
		to     string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export journal entries as CSV or JSON",
		Example: `
kepler export > journal.csv
kepler export --from 2026-03-01 --to 2026-03-31 --format json --out march.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "csv" && format != "json" {
				return fmt.Errorf("%w: %q", errUnknownExportFormat, format)
			}

			location := state.cfg.Location()
			exportRange, err := services.ParseExportRange(from, to, location)
			if err != nil {
				return err
			}

			journal, err := state.loadJournal(cmd)
			if err != nil {
				return err
			}
			entries := services.SelectExportEntries(journal.Entries(), exportRange, location)

			render := func(w io.Writer) error {
				if format == "json" {
					return writeExportJSON(w, entries)
				}
				return writeExportCSV(w, services.BuildExportCSVRows(entries, location))
			}
			if out == "" {
				return render(cmd.OutOrStdout())
			}
			if err := writeFile(out, render); err != nil {
				return err
			}

			summary := services.BuildExportSummary(entries, location)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", summary.TotalEntries, out)
			if summary.DateFrom != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Range: %s .. %s\n", summary.DateFrom, summary.DateTo)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First local day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last local day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func writeExportCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeExportJSON(w io.Writer, entries []models.LogEntry) error {
	payload, err := models.EncodeLog(entries)
	if err != nil {
		return err
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	_, err = io.WriteString(w, "\n")
	return err
}
