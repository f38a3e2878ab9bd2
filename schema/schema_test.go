package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetBasics(t *testing.T) {
	ds := NewDataset("adm1", "conf")
	require.NoError(t, ds.AppendRow([]any{"Western", 3.0}))
	require.NoError(t, ds.AppendRow([]any{"Northern", nil}))

	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, 0, ds.ColumnIndex("adm1"))
	assert.Equal(t, -1, ds.ColumnIndex("missing"))
	assert.True(t, ds.HasColumn("conf"))
	assert.Equal(t, "Western", ds.Value(0, "adm1"))
	assert.Nil(t, ds.Value(1, "conf"))
	assert.Nil(t, ds.Value(0, "missing"))
}

func TestAppendRowLengthMismatch(t *testing.T) {
	ds := NewDataset("a", "b")
	err := ds.AppendRow([]any{"only one"})
	assert.Error(t, err)
	assert.Equal(t, 0, ds.NumRows())
}

func TestNumericColumns(t *testing.T) {
	ds := NewDataset("adm1", "conf", "test", "empty", "mixed")
	require.NoError(t, ds.AppendRow([]any{"Western", 3.0, nil, nil, 1.0}))
	require.NoError(t, ds.AppendRow([]any{"Northern", nil, 5.0, nil, "oops"}))

	numeric := ds.NumericColumns()
	// adm1 is text, empty has no values, mixed has a string cell.
	assert.Equal(t, []string{"conf", "test"}, numeric)
}

func TestAsNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
		ok   bool
	}{
		{"float64", 3.5, 3.5, true},
		{"int", 7, 7.0, true},
		{"int64", int64(9), 9.0, true},
		{"string", "3.5", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
