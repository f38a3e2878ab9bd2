// Package tabload reads facility CSV files into in-memory datasets.
package tabload

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mfofanah/dhistat/schema"
)

// LoadCSV reads a CSV file with a header row into a Dataset. Cell types are
// inferred per value: empty cells become nil, numeric cells become float64,
// everything else stays a string. Headers are trimmed and lowercased so the
// well-known column names match regardless of export casing. Columns named in
// rawColumns are exempt from numeric inference and keep their text as-is;
// period labels like "01.2015" would otherwise collapse into floats and lose
// their formatting.
func LoadCSV(path string, rawColumns ...string) (*schema.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	ds, err := ReadCSV(f, rawColumns...)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads CSV content with a header row from any reader.
func ReadCSV(r io.Reader, rawColumns ...string) (*schema.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 0 // Every record must match the header width

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rawSet := make(map[string]struct{}, len(rawColumns))
	for _, name := range rawColumns {
		rawSet[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}

	columns := make([]string, len(header))
	raw := make([]bool, len(header))
	for i, h := range header {
		columns[i] = strings.ToLower(strings.TrimSpace(h))
		_, raw[i] = rawSet[columns[i]]
	}
	ds := schema.NewDataset(columns...)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := make([]any, len(record))
		for i, cell := range record {
			if raw[i] {
				row[i] = rawCell(cell)
			} else {
				row[i] = inferCell(cell)
			}
		}
		if err := ds.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// inferCell converts one raw CSV cell to its typed form.
func inferCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return n
	}
	return trimmed
}

// rawCell keeps a cell as text, empty cells still become nil.
func rawCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	return trimmed
}
