package presentation

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"phorg/internal/domain"
	apperrors "phorg/internal/errors"
)

type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// PrintSummary renders the end-of-run report: one headline, a breakdown of
// outcomes, and a table of failures when there are any.
func (p Printer) PrintSummary(s domain.Summary) {
	if s.DryRun {
		fmt.Fprintln(p.Writer, "Dry run: no files were changed.")
	}
	if s.Total == 0 {
		fmt.Fprintln(p.Writer, "Nothing to organize.")
		return
	}

	fmt.Fprintf(p.Writer, "Organized %d of %d files (%s) in %s.\n",
		s.Succeeded(), s.Total,
		humanize.Bytes(uint64(s.Bytes)),
		s.Duration.Round(time.Millisecond))

	details := make([]string, 0, 4)
	if s.Moved > 0 {
		details = append(details, fmt.Sprintf("%d moved", s.Moved))
	}
	if s.Copied > 0 {
		details = append(details, fmt.Sprintf("%d copied", s.Copied))
	}
	if s.Skipped > 0 {
		details = append(details, fmt.Sprintf("%d duplicates skipped", s.Skipped))
	}
	if s.Deleted > 0 {
		details = append(details, fmt.Sprintf("%d duplicates deleted", s.Deleted))
	}
	if len(details) > 0 {
		fmt.Fprintln(p.Writer, upperFirst(strings.Join(details, ", "))+".")
	}

	if len(s.Failed) > 0 {
		fmt.Fprintf(p.Writer, "\n%d file(s) failed:\n", len(s.Failed))
		fmt.Fprintln(p.Writer, p.renderFailures(s.Failed))
	}
}

func (p Printer) renderFailures(failed []domain.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Source", "Reason"})
	for i, res := range failed {
		tw.AppendRow(table.Row{i + 1, res.Source, p.reason(res)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func (p Printer) reason(res domain.Result) string {
	if res.Err == nil {
		return ""
	}
	if p.Verbose {
		return apperrors.UserMessage(res.Err)
	}
	return string(apperrors.KindOf(res.Err))
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
