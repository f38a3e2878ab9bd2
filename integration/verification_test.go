//go:build basic

// Package integration contains integration tests for dhistat.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPipelineEndToEnd runs the full pipeline against the fixture dataset and
// verifies the aggregated sums by recomputing them from the raw CSV.
func TestPipelineEndToEnd(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeFacilityFixture(t, workDir)
	dbFile := filepath.Join(workDir, "results.db")
	outFile := filepath.Join(workDir, "out.csv")

	_, err := runDhistatCommand(t, workDir,
		"run", inputFile,
		"--levels", "adm1",
		"--output", "csv",
		"--output-file", outFile,
		"--store-backend", "sqlite",
		"--store-db-connect", dbFile,
	)
	require.NoError(t, err)

	// The normalized dataset goes to the base path, the level to out_adm1.csv
	require.FileExists(t, outFile)
	levelFile := filepath.Join(workDir, "out_adm1.csv")
	require.FileExists(t, levelFile)

	sums := parseLevelSums(t, levelFile)
	expected := expectedSums(t, inputFile)
	assert.Equal(t, expected, sums)

	// The store database was created and populated
	info, err := os.Stat(dbFile)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// Status reflects the persisted run
	output, err := runDhistatCommand(t, workDir,
		"store", "status",
		"--store-backend", "sqlite",
		"--store-db-connect", dbFile,
	)
	require.NoError(t, err)
	assert.Contains(t, output, "Total Runs: 1")
}

// TestNormalizeResolutionCounts checks the printed resolution summary.
func TestNormalizeResolutionCounts(t *testing.T) {
	workDir := t.TempDir()
	inputFile := writeFacilityFixture(t, workDir)

	output, err := runDhistatCommand(t, workDir, "normalize", inputFile, "--color", "no")
	require.NoError(t, err)
	assert.Contains(t, output, "Total rows:  5")
	assert.Contains(t, output, "Resolved:    4")
	assert.Contains(t, output, "Unresolved:  1")
}

// parseLevelSums reads an aggregated level CSV into group -> metric -> sum.
func parseLevelSums(t *testing.T, path string) map[string]float64 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, records)

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	sums := make(map[string]float64)
	for _, rec := range records[1:] {
		key := strings.Join([]string{rec[col["adm1"]], rec[col["year"]], rec[col["month"]]}, "|")
		for _, metric := range []string{"confirmed", "tested"} {
			v, err := strconv.ParseFloat(rec[col[metric]], 64)
			require.NoError(t, err)
			sums[key+"|"+metric] = v
		}
	}
	return sums
}

// expectedSums recomputes the adm1 monthly sums straight from the raw CSV,
// resolving the fixture's period labels by hand.
func expectedSums(t *testing.T, path string) map[string]float64 {
	t.Helper()

	// Known resolutions for the fixture labels
	months := map[string][2]string{
		"January 2015": {"2015", "1"},
		"201501":       {"2015", "1"},
		"2015-02":      {"2015", "2"},
		"Feb 2015":     {"2015", "2"},
	}

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}

	sums := make(map[string]float64)
	for _, rec := range records[1:] {
		ym, ok := months[rec[col["period_name"]]]
		if !ok {
			continue // Unresolved rows have null year/month keys and are dropped
		}
		key := strings.Join([]string{rec[col["adm1"]], formatSum(mustFloat(t, ym[0])), formatSum(mustFloat(t, ym[1]))}, "|")
		for _, metric := range []string{"confirmed", "tested"} {
			// Empty cells contribute zero but still materialize the group
			v := 0.0
			if cell := rec[col[metric]]; cell != "" {
				v = mustFloat(t, cell)
			}
			sums[key+"|"+metric] += v
		}
	}
	return sums
}

func mustFloat(t *testing.T, s string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(s, 64)
	require.NoError(t, err)
	return v
}

// formatSum renders a float the way the CSV writer does at default precision.
func formatSum(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
