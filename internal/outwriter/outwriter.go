// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteNormalized prints a normalized dataset using the configured output format.
func (ow *OutWriter) WriteNormalized(ds *schema.Dataset, cfg *contract.Config) error {
	keyColumns := nonMetricColumns(ds)
	return WriteDataset(ds, "Normalized dataset", "row", keyColumns, cfg, cfg.OutputFile)
}

// WriteLevel prints one aggregated level using the configured output format.
// Per-level file outputs derive their name from the base output path.
func (ow *OutWriter) WriteLevel(ds *schema.Dataset, level schema.AggregationLevel, cfg *contract.Config) error {
	outputFile := contract.LevelOutputFile(cfg.OutputFile, level.Name)
	title := "Level " + level.Name
	return WriteDataset(ds, title, level.Name, level.Keys, cfg, outputFile)
}

// nonMetricColumns returns the columns that identify a row rather than
// measure it: everything that is not a purely numeric metric, plus the
// derived time columns.
func nonMetricColumns(ds *schema.Dataset) []string {
	numeric := make(map[string]struct{})
	for _, name := range ds.NumericColumns() {
		numeric[name] = struct{}{}
	}

	var keys []string
	for _, name := range ds.Columns {
		_, isNumeric := numeric[name]
		if !isNumeric || name == schema.YearColumn || name == schema.MonthColumn {
			keys = append(keys, name)
		}
	}
	return keys
}
