// Package core has core logic for normalization, aggregation and run orchestration.
package core

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mfofanah/dhistat/core/period"
	"github.com/mfofanah/dhistat/schema"
)

// NormalizeDataset applies period normalization to every row of the period
// column and returns a new dataset extended with the derived month, year and
// year_month columns. The output is 1:1 and order preserving; for unresolved
// labels all three derived cells are null together. Rows are processed in
// parallel chunks, and the result is independent of the worker count because
// normalization is pure.
func NormalizeDataset(ctx context.Context, ds *schema.Dataset, periodColumn string, workers int) (*schema.Dataset, schema.NormalizeReport, error) {
	report := schema.NormalizeReport{TotalRows: ds.NumRows()}

	pi := ds.ColumnIndex(periodColumn)
	if pi < 0 {
		return nil, report, fmt.Errorf("period column '%s' not found in dataset", periodColumn)
	}
	for _, derived := range []string{schema.MonthColumn, schema.YearColumn, schema.YearMonthColumn} {
		if ds.HasColumn(derived) {
			return nil, report, fmt.Errorf("dataset already has a '%s' column", derived)
		}
	}
	if workers < 1 {
		workers = 1
	}

	columns := make([]string, 0, len(ds.Columns)+3)
	columns = append(columns, ds.Columns...)
	columns = append(columns, schema.MonthColumn, schema.YearColumn, schema.YearMonthColumn)

	rows := make([][]any, ds.NumRows())
	var resolved atomic.Int64

	// Each worker owns a contiguous chunk, writing to unique row indexes.
	g, _ := errgroup.WithContext(ctx)
	chunk := (ds.NumRows() + workers - 1) / workers
	for start := 0; start < ds.NumRows(); start += chunk {
		end := min(start+chunk, ds.NumRows())
		g.Go(func() error {
			for ri := start; ri < end; ri++ {
				src := ds.Rows[ri]
				row := make([]any, 0, len(columns))
				row = append(row, src...)

				p := period.Normalize(periodLabel(src[pi]))
				if p.Resolved {
					row = append(row, float64(p.Month), float64(p.Year), p.YearMonth())
					resolved.Add(1)
				} else {
					row = append(row, nil, nil, nil)
				}
				rows[ri] = row
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, report, err
	}

	report.ResolvedRows = int(resolved.Load())
	report.UnresolvedRows = report.TotalRows - report.ResolvedRows

	out := schema.NewDataset(columns...)
	out.Rows = rows
	return out, report, nil
}

// periodLabel renders a period cell as the raw label text. Numeric cells come
// from CSV type inference, so 201501 must round-trip to "201501".
func periodLabel(v any) string {
	switch cell := v.(type) {
	case nil:
		return ""
	case string:
		return cell
	case float64:
		return strconv.FormatFloat(cell, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", cell)
	}
}
