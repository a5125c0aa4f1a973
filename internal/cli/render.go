package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/snapdiff/internal/compare"
	"github.com/leapstack-labs/snapdiff/internal/diff"
)

// renderSummary writes the comparison summary in the requested format.
// "text" prints one block per table; "table" adds a summary table at
// the end; "json" emits the structured summary.
func renderSummary(w io.Writer, s *compare.Summary, format string) error {
	switch format {
	case "json":
		return renderJSON(w, s)
	case "text":
		renderBlocks(w, s)
		return nil
	default:
		renderBlocks(w, s)
		renderSummaryTable(w, s)
		return nil
	}
}

func renderJSON(w io.Writer, s *compare.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// renderBlocks prints one block per table, in plan order.
func renderBlocks(w io.Writer, s *compare.Summary) {
	for _, r := range s.Results {
		switch r.Status {
		case compare.StatusSkipped:
			fmt.Fprintf(w, "%s: skipped (%s)\n\n", r.Table, r.Reason)
		case compare.StatusFailed:
			fmt.Fprintf(w, "%s: error: %s\n\n", r.Table, r.Error)
		case compare.StatusCompared:
			renderReport(w, r.Report)
		}
	}
}

func renderReport(w io.Writer, report *diff.TableReport) {
	fmt.Fprintf(w, "%s: %d rows in A, %d rows in B\n", report.Table, report.CountA, report.CountB)
	if report.Equal {
		fmt.Fprintf(w, "  No differences found in %s\n\n", report.Table)
		return
	}
	if len(report.Discrepancies) == 0 {
		// Counts-only comparison with differing counts.
		fmt.Fprintf(w, "  Row counts differ in %s\n\n", report.Table)
		return
	}
	for _, d := range report.Discrepancies {
		switch d.Kind {
		case diff.KindValueMismatch:
			fmt.Fprintf(w, "  %s: value mismatch\n", d.Key)
			fmt.Fprintf(w, "    A: (%s)\n", formatTuple(d.ValuesA))
			fmt.Fprintf(w, "    B: (%s)\n", formatTuple(d.ValuesB))
		case diff.KindMissingInB:
			fmt.Fprintf(w, "  %s: missing in store B\n", d.Key)
		case diff.KindMissingInA:
			fmt.Fprintf(w, "  %s: missing in store A\n", d.Key)
		}
	}
	fmt.Fprintln(w)
}

// renderSummaryTable prints the per-table tallies as a table.
func renderSummaryTable(w io.Writer, s *compare.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Table", "Status", "Rows A", "Rows B", "Discrepancies"})
	for _, r := range s.Results {
		switch r.Status {
		case compare.StatusCompared:
			t.AppendRow(table.Row{
				r.Table, string(r.Status),
				r.Report.CountA, r.Report.CountB,
				len(r.Report.Discrepancies),
			})
		default:
			t.AppendRow(table.Row{r.Table, string(r.Status), "-", "-", "-"})
		}
	}
	t.Render()

	fmt.Fprintf(w, "%d compared, %d skipped, %d failed, %d total discrepancies\n",
		s.Compared, s.Skipped, s.Failed, s.Discrepancies)
}

func formatTuple(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
