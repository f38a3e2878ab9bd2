package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/internal/parquet"
	"github.com/mfofanah/dhistat/schema"
)

// WriteDataset outputs a dataset, dispatching based on the output format
// configured. The title names the dataset in the table footer; levelName and
// keyColumns shape the long-format Parquet export.
func WriteDataset(ds *schema.Dataset, title, levelName string, keyColumns []string, cfg *contract.Config, outputFile string) error {
	fmtFloat := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeDatasetJSON(ds, outputFile); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeDatasetCSV(ds, outputFile, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeDatasetParquet(ds, levelName, keyColumns, outputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(outputFile, func(w io.Writer) error {
			return writeDatasetTable(ds, title, cfg, fmtFloat, w)
		}, "table")
	}
	return nil
}

// writeDatasetTable generates and writes the human-readable table.
func writeDatasetTable(ds *schema.Dataset, title string, cfg *contract.Config, fmtFloat func(float64) string, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header(ds.Columns)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxCell := GetMaxTableCellWidth(cfg, len(ds.Columns))
	var data [][]string
	for _, row := range ds.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = contract.TruncateCell(formatCell(v, fmtFloat), maxCell)
		}
		data = append(data, cells)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "%s: %d rows, %d columns\n", title, ds.NumRows(), len(ds.Columns)); err != nil {
		return err
	}
	return nil
}

// writeDatasetCSV handles opening the file and writing CSV records.
func writeDatasetCSV(ds *schema.Dataset, outputFile string, fmtFloat func(float64) string) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, ds.Columns, func(cw *csv.Writer) error {
			for _, row := range ds.Rows {
				rec := make([]string, len(row))
				for i, v := range row {
					rec[i] = formatCell(v, fmtFloat)
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "CSV")
}

// writeDatasetJSON writes rows as an array of column-keyed objects, so null
// cells survive as JSON nulls instead of empty strings.
func writeDatasetJSON(ds *schema.Dataset, outputFile string) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		output := make([]map[string]any, 0, ds.NumRows())
		for _, row := range ds.Rows {
			obj := make(map[string]any, len(ds.Columns))
			for i, col := range ds.Columns {
				obj[col] = row[i]
			}
			output = append(output, obj)
		}
		return writeJSON(w, output)
	}, "JSON")
}

// writeDatasetParquet writes the long-format Parquet export. Parquet is a
// binary format, so stdout is not a valid destination.
func writeDatasetParquet(ds *schema.Dataset, levelName string, keyColumns []string, outputFile string) error {
	if outputFile == "" {
		return errors.New("parquet output requires --output-file")
	}
	records, err := parquet.DatasetValues(levelName, keyColumns, ds)
	if err != nil {
		return err
	}
	return parquet.WriteDatasetValuesParquet(records, outputFile)
}
