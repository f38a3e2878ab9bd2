// Package agg has hierarchical aggregation logic for facility datasets.
package agg

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mfofanah/dhistat/schema"
)

// Result is the outcome of aggregating one level. Exactly one of two shapes
// holds: Table is non-nil and Missing is empty (the level aggregated), or
// Table is nil and Missing lists the grouping columns absent from the input
// (the level was skipped). LevelName is populated in both shapes.
type Result struct {
	LevelName string
	Table     *schema.Dataset
	Missing   []string
}

// Skipped reports whether the level was skipped for missing grouping columns.
func (r *Result) Skipped() bool {
	return r.Table == nil
}

// group accumulates null-skipping sums for one distinct key tuple.
type group struct {
	keys []any
	sums []float64
}

// Aggregate groups the dataset by the level's key columns and sums every
// numeric non-key column. Null metric cells contribute zero, so a group whose
// cells are all null still sums to 0. Rows with a null in any grouping key
// are dropped. Non-numeric non-key columns do not survive into the output.
// A missing grouping column skips the whole level rather than failing the
// run.
func Aggregate(ds *schema.Dataset, level schema.AggregationLevel) *Result {
	result := &Result{LevelName: level.Name}

	for _, key := range level.Keys {
		if !ds.HasColumn(key) {
			result.Missing = append(result.Missing, key)
		}
	}
	if len(result.Missing) > 0 {
		return result
	}

	metrics := metricColumns(ds, level.Keys)

	keyIdx := make([]int, len(level.Keys))
	for i, key := range level.Keys {
		keyIdx[i] = ds.ColumnIndex(key)
	}
	metricIdx := make([]int, len(metrics))
	for i, m := range metrics {
		metricIdx[i] = ds.ColumnIndex(m)
	}

	groups := make(map[string]*group)
	for _, row := range ds.Rows {
		gk, ok := encodeGroupKey(row, keyIdx)
		if !ok {
			continue // Null grouping key drops the row
		}

		g, exists := groups[gk]
		if !exists {
			g = &group{
				keys: make([]any, len(keyIdx)),
				sums: make([]float64, len(metrics)),
			}
			for i, ci := range keyIdx {
				g.keys[i] = row[ci]
			}
			groups[gk] = g
		}

		for i, ci := range metricIdx {
			if n, ok := schema.AsNumber(row[ci]); ok {
				g.sums[i] += n
			}
		}
	}

	// Sort by encoded key for deterministic output order.
	encoded := make([]string, 0, len(groups))
	for gk := range groups {
		encoded = append(encoded, gk)
	}
	sort.Strings(encoded)

	columns := make([]string, 0, len(level.Keys)+len(metrics))
	columns = append(columns, level.Keys...)
	columns = append(columns, metrics...)
	table := schema.NewDataset(columns...)

	for _, gk := range encoded {
		g := groups[gk]
		row := make([]any, 0, len(columns))
		row = append(row, g.keys...)
		for i := range metrics {
			row = append(row, g.sums[i])
		}
		// Row shape is built from the same column list; append cannot fail.
		_ = table.AppendRow(row)
	}

	result.Table = table
	return result
}

// AggregateLevels aggregates every level concurrently. Each level's output
// depends only on the input dataset, so results are position-stable
// regardless of scheduling. The dataset is read-only throughout.
func AggregateLevels(ctx context.Context, ds *schema.Dataset, levels []schema.AggregationLevel) ([]*Result, error) {
	results := make([]*Result, len(levels))

	g, _ := errgroup.WithContext(ctx)
	for i, level := range levels {
		g.Go(func() error {
			results[i] = Aggregate(ds, level)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// metricColumns returns the numeric columns outside the grouping keys, in
// dataset column order.
func metricColumns(ds *schema.Dataset, keys []string) []string {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	var metrics []string
	for _, name := range ds.NumericColumns() {
		if _, isKey := keySet[name]; !isKey {
			metrics = append(metrics, name)
		}
	}
	return metrics
}

// encodeGroupKey builds a deterministic string key for a row's grouping
// tuple. Cells are tagged by kind so a string "1" and a numeric 1 never
// collide. Returns false when any grouping cell is null.
func encodeGroupKey(row []any, keyIdx []int) (string, bool) {
	var sb strings.Builder
	for _, ci := range keyIdx {
		switch v := row[ci].(type) {
		case nil:
			return "", false
		case string:
			sb.WriteString("s:")
			sb.WriteString(v)
		case float64:
			sb.WriteString("n:")
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		default:
			sb.WriteString("o:")
			if n, ok := schema.AsNumber(v); ok {
				sb.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
			}
		}
		sb.WriteByte('\x1f')
	}
	return sb.String(), true
}
