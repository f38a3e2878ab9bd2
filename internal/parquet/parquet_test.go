package parquet

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfofanah/dhistat/schema"
)

func TestDatasetValuesLongFormat(t *testing.T) {
	ds := schema.NewDataset("adm1", "year", "month", "conf", "test")
	require.NoError(t, ds.AppendRow([]any{"Western", 2015.0, 1.0, 3.0, nil}))
	require.NoError(t, ds.AppendRow([]any{"Northern", 2015.0, 1.0, 5.0, 2.0}))

	records, err := DatasetValues("adm1", []string{"adm1", "year", "month"}, ds)
	require.NoError(t, err)

	// Row 1 contributes one record (nil test skipped), row 2 contributes two.
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "adm1", first.Level)
	assert.Equal(t, "conf", first.Metric)
	assert.Equal(t, 3.0, first.Value)
	assert.JSONEq(t, `{"adm1":"Western","year":2015,"month":1}`, first.Keys)

	metrics := []string{records[1].Metric, records[2].Metric}
	assert.ElementsMatch(t, []string{"conf", "test"}, metrics)
}

func TestWriteDatasetValuesRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "values.parquet")
	data := []DatasetValue{
		{Level: "adm1", Keys: `{"adm1":"Western"}`, Metric: "conf", Value: 3},
		{Level: "adm2", Keys: `{"adm1":"Western","adm2":"Rural"}`, Metric: "conf", Value: 1},
	}

	require.NoError(t, WriteDatasetValuesParquet(data, path))

	rows, err := parquet.ReadFile[DatasetValue](path)
	require.NoError(t, err)
	assert.Equal(t, data, rows)
}

func TestWritePipelineRunsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.parquet")
	end := time.Now().Truncate(time.Millisecond).UTC()
	data := []PipelineRun{
		{RunID: 1, StartTime: end.Add(-time.Minute), EndTime: &end, InputFile: "f.csv", TotalRows: 10, ResolvedRows: 9, Status: schema.RunStatusCompleted},
		{RunID: 2, StartTime: end, InputFile: "g.csv", Status: schema.RunStatusRunning},
	}

	require.NoError(t, WritePipelineRunsParquet(data, path))

	rows, err := parquet.ReadFile[PipelineRun](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].EndTime)
	assert.Nil(t, rows[1].EndTime)
}

func TestConvertRunRecords(t *testing.T) {
	now := time.Now()
	records := []schema.RunRecord{
		{ID: 7, StartTime: now, EndTime: now.Add(time.Second), InputFile: "x.csv", TotalRows: 4, ResolvedRows: 3, Status: schema.RunStatusCompleted},
		{ID: 8, StartTime: now, Status: schema.RunStatusRunning},
	}

	runs := ConvertRunRecords(records)
	require.Len(t, runs, 2)
	assert.Equal(t, int64(7), runs[0].RunID)
	require.NotNil(t, runs[0].EndTime)
	assert.Nil(t, runs[1].EndTime)
}
