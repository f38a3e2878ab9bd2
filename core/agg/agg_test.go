package agg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfofanah/dhistat/schema"
)

func facilityDataset(t *testing.T) *schema.Dataset {
	t.Helper()
	ds := schema.NewDataset("adm0", "adm1", "year", "month", "conf", "test", "note")
	rows := [][]any{
		{"SL", "Western", 2015.0, 1.0, 3.0, 10.0, "ok"},
		{"SL", "Western", 2015.0, 1.0, 2.0, nil, "ok"},
		{"SL", "Western", 2015.0, 2.0, 5.0, 1.0, "ok"},
		{"SL", "Northern", 2015.0, 1.0, nil, nil, "ok"},
		{"SL", nil, 2015.0, 1.0, 7.0, 7.0, "dropped"},
	}
	for _, row := range rows {
		require.NoError(t, ds.AppendRow(row))
	}
	return ds
}

func adm1Level() schema.AggregationLevel {
	return schema.AggregationLevel{
		Name: "adm1",
		Keys: []string{"adm0", "adm1", "year", "month"},
	}
}

func TestAggregateSums(t *testing.T) {
	result := Aggregate(facilityDataset(t), adm1Level())

	require.False(t, result.Skipped())
	assert.Equal(t, "adm1", result.LevelName)
	assert.Empty(t, result.Missing)

	table := result.Table
	// Text column is dropped, key columns come first.
	assert.Equal(t, []string{"adm0", "adm1", "year", "month", "conf", "test"}, table.Columns)

	// Three groups: the nil-adm1 row is dropped entirely.
	require.Equal(t, 3, table.NumRows())

	byGroup := make(map[[2]any][]any)
	for i := range table.Rows {
		key := [2]any{table.Value(i, "adm1"), table.Value(i, "month")}
		byGroup[key] = table.Rows[i]
	}

	western1 := byGroup[[2]any{"Western", 1.0}]
	require.NotNil(t, western1)
	assert.Equal(t, 5.0, western1[table.ColumnIndex("conf")])
	// Null-skipping sum: the nil test cell does not poison the total.
	assert.Equal(t, 10.0, western1[table.ColumnIndex("test")])

	western2 := byGroup[[2]any{"Western", 2.0}]
	require.NotNil(t, western2)
	assert.Equal(t, 5.0, western2[table.ColumnIndex("conf")])
	assert.Equal(t, 1.0, western2[table.ColumnIndex("test")])

	// Nulls contribute zero, so a group whose every cell is null sums to 0.
	northern := byGroup[[2]any{"Northern", 1.0}]
	require.NotNil(t, northern)
	assert.Equal(t, 0.0, northern[table.ColumnIndex("conf")])
	assert.Equal(t, 0.0, northern[table.ColumnIndex("test")])
}

func TestAggregateMissingColumnSkips(t *testing.T) {
	ds := schema.NewDataset("adm0", "year", "month", "conf")
	require.NoError(t, ds.AppendRow([]any{"SL", 2015.0, 1.0, 3.0}))

	result := Aggregate(ds, adm1Level())

	assert.True(t, result.Skipped())
	assert.Equal(t, "adm1", result.LevelName)
	assert.Equal(t, []string{"adm1"}, result.Missing)
	assert.Nil(t, result.Table)
}

func TestAggregateEmptyDataset(t *testing.T) {
	ds := schema.NewDataset("adm0", "adm1", "year", "month", "conf")

	result := Aggregate(ds, adm1Level())

	require.False(t, result.Skipped())
	assert.Equal(t, 0, result.Table.NumRows())
	// No rows means no numeric evidence for any metric column.
	assert.Equal(t, []string{"adm0", "adm1", "year", "month"}, result.Table.Columns)
}

func TestAggregateDeterministicOrder(t *testing.T) {
	ds := facilityDataset(t)

	first := Aggregate(ds, adm1Level())
	second := Aggregate(ds, adm1Level())

	require.False(t, first.Skipped())
	assert.Equal(t, first.Table.Rows, second.Table.Rows)
}

func TestAggregateKeyKindsDoNotCollide(t *testing.T) {
	ds := schema.NewDataset("adm1", "year", "month", "conf")
	require.NoError(t, ds.AppendRow([]any{"1", 2015.0, 1.0, 3.0}))
	require.NoError(t, ds.AppendRow([]any{1.0, 2015.0, 1.0, 4.0}))

	level := schema.AggregationLevel{Name: "adm1", Keys: []string{"adm1", "year", "month"}}
	result := Aggregate(ds, level)

	require.False(t, result.Skipped())
	assert.Equal(t, 2, result.Table.NumRows())
}

func TestAggregateLevels(t *testing.T) {
	ds := facilityDataset(t)
	levels := []schema.AggregationLevel{
		adm1Level(),
		{Name: "adm2", Keys: []string{"adm0", "adm1", "adm2", "year", "month"}},
	}

	results, err := AggregateLevels(context.Background(), ds, levels)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Results stay aligned with the input level order.
	assert.Equal(t, "adm1", results[0].LevelName)
	assert.False(t, results[0].Skipped())
	assert.Equal(t, "adm2", results[1].LevelName)
	assert.True(t, results[1].Skipped())
	assert.Equal(t, []string{"adm2"}, results[1].Missing)
}
