package iostore

import (
	"errors"
	"fmt"

	"github.com/mfofanah/dhistat/internal/parquet"
)

// ExecuteStoreExport exports the persisted runs and level values to Parquet files.
func ExecuteStoreExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetResultsStore()
	if store == nil {
		return errors.New("no results store configured, set --store-backend")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}

	if status.RunCount == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.RunCount)
	fmt.Printf("Total level values: %d\n", status.ValueCount)

	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	var allValues []parquet.DatasetValue
	for _, run := range runs {
		values, err := store.ListLevelValues(run.ID)
		if err != nil {
			return fmt.Errorf("failed to retrieve values for run %d: %w", run.ID, err)
		}
		allValues = append(allValues, parquet.ConvertLevelValues(values)...)
	}

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WritePipelineRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	// Write level values to Parquet
	valuesFile := outputFile + ".level_values.parquet"
	if err := parquet.WriteDatasetValuesParquet(allValues, valuesFile); err != nil {
		return fmt.Errorf("failed to write level values: %w", err)
	}
	fmt.Printf("Exported %d level values to: %s\n", len(allValues), valuesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
