// Package schema has configs, models and shared constants for all parts of dhistat.
package schema

import "fmt"

// Dataset represents an in-memory tabular dataset: an ordered list of column
// names plus rows of cell values aligned to those columns. Cell values are
// nil (missing), string, or float64. Transformations over a Dataset are
// value-oriented: they take a Dataset and return a new one, never mutating
// shared state in place.
type Dataset struct {
	Columns []string // Ordered column names
	Rows    [][]any  // Each row aligned 1:1 with Columns
}

// NewDataset creates an empty dataset with the given column order.
func NewDataset(columns ...string) *Dataset {
	return &Dataset{Columns: columns}
}

// NumRows returns the number of rows in the dataset.
func (ds *Dataset) NumRows() int {
	return len(ds.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (ds *Dataset) ColumnIndex(name string) int {
	for i, c := range ds.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists in the dataset schema.
func (ds *Dataset) HasColumn(name string) bool {
	return ds.ColumnIndex(name) >= 0
}

// AppendRow adds a row to the dataset. The row length must match the column
// count; mismatches indicate a programming error and are rejected.
func (ds *Dataset) AppendRow(row []any) error {
	if len(row) != len(ds.Columns) {
		return fmt.Errorf("row has %d values but dataset has %d columns", len(row), len(ds.Columns))
	}
	ds.Rows = append(ds.Rows, row)
	return nil
}

// Value returns the cell at (rowIdx, column), or nil when the column is
// absent. Callers are expected to bounds-check rowIdx.
func (ds *Dataset) Value(rowIdx int, column string) any {
	ci := ds.ColumnIndex(column)
	if ci < 0 {
		return nil
	}
	return ds.Rows[rowIdx][ci]
}
