// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"

	"passhunt/internal/core/domain"
	"passhunt/internal/core/ports"
)

// OutputTable imprime el resumen de la búsqueda como tabla en w.
func OutputTable(w io.Writer, report *domain.SearchReport, opts ports.ExportOptions) error {
	data := pterm.TableData{
		{"Field", "Value"},
		{"Target", report.Target.Path},
		{"Format", report.Target.Format.String()},
		{"Oracle", report.Oracle},
		{"Workers", strconv.Itoa(report.Workers)},
		{"Status", statusLabel(report.State.Status)},
	}

	if report.Found() {
		pw := "(hidden)"
		if opts.RevealPassword {
			pw = strconv.Quote(report.State.Password)
		}
		data = append(data, []string{"Password", pw})
	}
	if report.State.Reason != "" {
		data = append(data, []string{"Reason", report.State.Reason})
	}

	data = append(data,
		[]string{"Attempted", formatCount(report.State.Attempted, report.Total)},
		[]string{"Skipped", strconv.FormatInt(report.Skipped, 10)},
		[]string{"Errors", strconv.FormatInt(report.State.Errors, 10)},
		[]string{"Retries", strconv.FormatInt(report.State.Retries, 10)},
		[]string{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
		[]string{"Rate", fmt.Sprintf("%.1f/s", report.Rate)},
	)

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	if _, err := fmt.Fprintln(w, table); err != nil {
		return err
	}

	if report.Found() && opts.RevealPassword && opts.UsageHint != "" {
		if _, err := fmt.Fprintf(w, "\nExtract with:\n  %s\n", opts.UsageHint); err != nil {
			return err
		}
	}
	return nil
}

func statusLabel(s domain.Status) string {
	switch s {
	case domain.StatusFound:
		return pterm.Green(s.String())
	case domain.StatusExhausted:
		return pterm.Yellow(s.String())
	case domain.StatusAborted:
		return pterm.Red(s.String())
	default:
		return s.String()
	}
}

func formatCount(n, total int64) string {
	if total < 0 {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprintf("%d / %d", n, total)
}
