// Package parquet provides data structures and functions for exporting
// dhistat datasets and stored runs to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mfofanah/dhistat/schema"
	"github.com/parquet-go/parquet-go"
)

// PipelineRun represents a single pipeline run with metadata.
// This struct maps to the dhistat_runs database table.
type PipelineRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// InputFile is the dataset path the run processed
	InputFile string `parquet:"input_file,snappy"`

	// TotalRows is the number of input rows processed
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ResolvedRows is the number of rows whose period label resolved
	ResolvedRows int32 `parquet:"resolved_rows,snappy"`

	// Status is the run lifecycle state (running, completed)
	Status string `parquet:"status,snappy"`
}

// DatasetValue is one aggregated value in long format: the grouping key tuple
// is serialized as a JSON object so every level shares one schema.
// This struct maps to the dhistat_level_values database table.
type DatasetValue struct {
	// Level is the aggregation level name (adm1..hf)
	Level string `parquet:"level,snappy"`

	// Keys is the JSON-encoded grouping key tuple, column name -> value
	Keys string `parquet:"keys,snappy"`

	// Metric is the summed column name
	Metric string `parquet:"metric,snappy"`

	// Value is the null-skipping sum for this group and metric
	Value float64 `parquet:"value,snappy"`
}

// WritePipelineRunsParquet writes a slice of PipelineRun structs to a Parquet file.
func WritePipelineRunsParquet(data []PipelineRun, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WritePipelineRuns(file, data)
}

// WritePipelineRuns writes PipelineRun records to any writer.
func WritePipelineRuns(w io.Writer, data []PipelineRun) error {
	// The schema is automatically derived from the PipelineRun struct tags
	writer := parquet.NewGenericWriter[PipelineRun](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// WriteDatasetValuesParquet writes a slice of DatasetValue structs to a Parquet file.
func WriteDatasetValuesParquet(data []DatasetValue, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return WriteDatasetValues(file, data)
}

// WriteDatasetValues writes DatasetValue records to any writer.
func WriteDatasetValues(w io.Writer, data []DatasetValue) error {
	// The schema is automatically derived from the DatasetValue struct tags
	writer := parquet.NewGenericWriter[DatasetValue](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return writer.Close()
}

// DatasetValues converts a dataset to long-format records. The named key
// columns form the JSON key tuple; every other numeric column becomes one
// record per row. Null metric cells produce no record.
func DatasetValues(level string, keys []string, ds *schema.Dataset) ([]DatasetValue, error) {
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

	var records []DatasetValue
	for ri := range ds.Rows {
		tuple := make(map[string]any, len(keys))
		for _, k := range keys {
			if ds.HasColumn(k) {
				tuple[k] = ds.Value(ri, k)
			}
		}
		encoded, err := json.Marshal(tuple)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key tuple: %w", err)
		}

		for _, m := range metrics {
			n, ok := schema.AsNumber(ds.Value(ri, m))
			if !ok {
				continue
			}
			records = append(records, DatasetValue{
				Level:  level,
				Keys:   string(encoded),
				Metric: m,
				Value:  n,
			})
		}
	}
	return records, nil
}

// ConvertRunRecords converts schema.RunRecord to PipelineRun for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []PipelineRun {
	result := make([]PipelineRun, len(records))
	for i, record := range records {
		run := PipelineRun{
			RunID:        record.ID,
			StartTime:    record.StartTime,
			InputFile:    record.InputFile,
			TotalRows:    int32(record.TotalRows),
			ResolvedRows: int32(record.ResolvedRows),
			Status:       record.Status,
		}
		if !record.EndTime.IsZero() {
			end := record.EndTime
			run.EndTime = &end
		}
		result[i] = run
	}
	return result
}

// ConvertLevelValues converts schema.LevelValue to DatasetValue for Parquet export.
func ConvertLevelValues(values []schema.LevelValue) []DatasetValue {
	result := make([]DatasetValue, len(values))
	for i, v := range values {
		result[i] = DatasetValue{
			Level:  v.Level,
			Keys:   v.GroupKeys,
			Metric: v.Metric,
			Value:  v.Value,
		}
	}
	return result
}
