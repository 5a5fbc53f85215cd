package output

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vitae-cv/vitae/internal/application/dto"
	"github.com/vitae-cv/vitae/internal/domain/values"
)

// maxInputWidth truncates long offending values in the table.
const maxInputWidth = 40

// TableFormatter formats validation reports as a human-readable table.
// Colors are used only when the writer is a color-capable terminal.
type TableFormatter struct {
	writer   io.Writer
	renderer *lipgloss.Renderer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{
		writer:   w,
		renderer: lipgloss.NewRenderer(w),
	}
}

// Format writes the report as a summary line followed by one table row per
// issue: location, input, message.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) Format(report *dto.ValidationReport) error {
	var (
		ok    = f.renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
		bad   = f.renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		faint = f.renderer.NewStyle().Faint(true)
	)

	if report.Valid {
		fmt.Fprintf(f.writer, "%s %s is valid: %d section(s), %d entries %s\n",
			ok.Render("✓"), report.Source, report.Summary.Sections, report.Summary.Entries,
			faint.Render(fmt.Sprintf("(%s)", report.Duration.Round(time.Millisecond))))
		return nil
	}

	fmt.Fprintf(f.writer, "%s %s is invalid: %d error(s), %d warning(s) %s\n",
		bad.Render("✗"), report.Source, report.Summary.Errors, report.Summary.Warnings,
		faint.Render("run "+report.RunID.String()))

	header := f.renderer.NewStyle().Bold(true).Padding(0, 1)
	cell := f.renderer.NewStyle().Padding(0, 1)
	warn := cell.Foreground(lipgloss.Color("3"))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(faint).
		Headers("LOCATION", "INPUT", "MESSAGE").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if row >= 0 && row < len(report.Issues) && report.Issues[row].Severity == values.SevWarning {
				return warn
			}
			return cell
		})

	for _, is := range report.Issues {
		location := is.Location
		if location == "" {
			location = "-"
		}
		t.Row(location, truncate(is.Input, maxInputWidth), is.Message)
	}

	fmt.Fprintln(f.writer, t.String())
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
