// Package compare orchestrates table-by-table comparison of two
// snapshot stores: probe the schema, fetch both snapshots, diff them,
// and collect one result per planned table.
package compare

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/snapdiff/internal/diff"
	"github.com/leapstack-labs/snapdiff/internal/plan"
	"github.com/leapstack-labs/snapdiff/internal/store"
)

// Status classifies the outcome of one table's comparison.
type Status string

const (
	// StatusCompared means both snapshots were fetched and diffed.
	StatusCompared Status = "compared"

	// StatusSkipped means the table was absent in one or both stores.
	// Not an error condition: no fetch is attempted against either
	// store for a skipped table.
	StatusSkipped Status = "skipped"

	// StatusFailed means a fetch failed for this table. The run
	// continues with the remaining tables.
	StatusFailed Status = "failed"
)

// Result is the outcome for one planned table. Report is set for
// compared tables, Reason for skipped ones, Error for failed ones.
type Result struct {
	Table  string            `json:"table"`
	Status Status            `json:"status"`
	Report *diff.TableReport `json:"report,omitempty"`
	Reason string            `json:"reason,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Summary is the structured outcome of a full comparison run. It keeps
// exit-code policy out of the core: the CLI layer decides what to do
// with a summary that is not Equal.
type Summary struct {
	RunID         string   `json:"run_id"`
	StoreA        string   `json:"store_a"`
	StoreB        string   `json:"store_b"`
	Results       []Result `json:"results"`
	Compared      int      `json:"tables_compared"`
	Mismatched    int      `json:"tables_mismatched"`
	Skipped       int      `json:"tables_skipped"`
	Failed        int      `json:"tables_failed"`
	Discrepancies int      `json:"total_discrepancies"`
}

// Equal reports whether every compared table matched and no table
// failed. Skipped tables do not affect equality.
func (s *Summary) Equal() bool {
	return s.Failed == 0 && s.Mismatched == 0
}

// Options tunes a comparison run.
type Options struct {
	// Workers bounds how many tables are compared at once. Values
	// below 2 run strictly sequentially. Results are always presented
	// in the plan's declared table order regardless of Workers.
	Workers int

	// CountsOnly compares row counts per table without fetching or
	// diffing content, as a fast sanity check.
	CountsOnly bool

	// Logger may be nil, in which case logging is discarded.
	Logger *slog.Logger
}

// Compare runs the plan against two stores and returns one result per
// planned table, in plan order. Per-table fetch failures are recorded
// in the summary and never abort the run; Compare itself only fails on
// an invalid plan.
func Compare(ctx context.Context, a, b *store.Store, p plan.Plan, opts Options) (*Summary, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid comparison plan: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	specs := p.Specs()
	results := make([]Result, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, spec := range specs {
		g.Go(func() error {
			results[i] = compareTable(gctx, a, b, spec, opts.CountsOnly, logger)
			return nil
		})
	}
	// Table failures are captured in results, never returned.
	_ = g.Wait()

	summary := &Summary{
		RunID:   uuid.New().String(),
		StoreA:  a.Path(),
		StoreB:  b.Path(),
		Results: results,
	}
	for _, r := range results {
		switch r.Status {
		case StatusCompared:
			summary.Compared++
			summary.Discrepancies += len(r.Report.Discrepancies)
			if !r.Report.Equal {
				summary.Mismatched++
			}
		case StatusSkipped:
			summary.Skipped++
		case StatusFailed:
			summary.Failed++
		}
	}
	return summary, nil
}

// compareTable runs one table's comparison as an independent unit of
// work: probe both stores, then fetch and diff (or count).
func compareTable(ctx context.Context, a, b *store.Store, spec plan.TableSpec, countsOnly bool, logger *slog.Logger) Result {
	inA, err := a.HasTable(ctx, spec.Name)
	if err != nil {
		return failedResult(spec.Name, err, logger)
	}
	inB, err := b.HasTable(ctx, spec.Name)
	if err != nil {
		return failedResult(spec.Name, err, logger)
	}

	if !inA || !inB {
		reason := skipReason(inA, inB)
		logger.Info("skipping table", "table", spec.Name, "reason", reason)
		return Result{Table: spec.Name, Status: StatusSkipped, Reason: reason}
	}

	if countsOnly {
		return compareCounts(ctx, a, b, spec.Name, logger)
	}

	snapA, err := a.FetchRows(ctx, spec.Name, spec.Columns)
	if err != nil {
		return failedResult(spec.Name, err, logger)
	}
	snapB, err := b.FetchRows(ctx, spec.Name, spec.Columns)
	if err != nil {
		return failedResult(spec.Name, err, logger)
	}

	report := diff.Diff(snapA, snapB, spec.Name)
	logger.Debug("compared table",
		"table", spec.Name,
		"rows_a", report.CountA,
		"rows_b", report.CountB,
		"discrepancies", len(report.Discrepancies))
	return Result{Table: spec.Name, Status: StatusCompared, Report: report}
}

// compareCounts builds a report from raw row counts alone.
func compareCounts(ctx context.Context, a, b *store.Store, table string, logger *slog.Logger) Result {
	countA, err := a.CountRows(ctx, table)
	if err != nil {
		return failedResult(table, err, logger)
	}
	countB, err := b.CountRows(ctx, table)
	if err != nil {
		return failedResult(table, err, logger)
	}

	report := &diff.TableReport{
		Table:  table,
		CountA: int(countA),
		CountB: int(countB),
		Equal:  countA == countB,
	}
	return Result{Table: table, Status: StatusCompared, Report: report}
}

func failedResult(table string, err error, logger *slog.Logger) Result {
	logger.Warn("table comparison failed", "table", table, "error", err)
	return Result{Table: table, Status: StatusFailed, Error: err.Error()}
}

func skipReason(inA, inB bool) string {
	switch {
	case !inA && !inB:
		return "absent in both stores"
	case !inA:
		return "absent in store A"
	default:
		return "absent in store B"
	}
}
