package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Resolution quality label constants.
const (
	ExcellentValue = "Excellent" // Nearly every label resolved
	GoodValue      = "Good"      // Most labels resolved
	FairValue      = "Fair"      // Noticeable share unresolved
	PoorValue      = "Poor"      // Data quality problem
)

// Color variables for console output.
var (
	ExcellentColor = color.New(color.FgGreen, color.Bold) // excellentColor signals healthy data.
	GoodColor      = color.New(color.FgCyan)              // goodColor signals acceptable quality.
	FairColor      = color.New(color.FgYellow)            // fairColor signals standard caution, not bold.
	PoorColor      = color.New(color.FgRed, color.Bold)   // poorColor signals a data quality problem.
)

// GetPlainLabel returns a plain text quality label for a resolution rate in
// 0..1. This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(rate float64) string {
	switch {
	case rate >= 0.95:
		return ExcellentValue
	case rate >= 0.80:
		return GoodValue
	case rate >= 0.50:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored quality label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(rate float64) string {
	text := GetPlainLabel(rate)

	switch text {
	case ExcellentValue:
		return ExcellentColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LevelOutputFile derives a per-level output path from a base path by
// inserting the level name before the extension, e.g. out.csv -> out_adm2.csv.
// An empty base path keeps stdout for every level.
func LevelOutputFile(basePath, level string) string {
	if basePath == "" {
		return ""
	}
	ext := filepath.Ext(basePath)
	return strings.TrimSuffix(basePath, ext) + "_" + level + ext
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for results storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dhistat_results.db"
	}
	return filepath.Join(homeDir, ".dhistat_results.db")
}

// TruncateCell truncates a table cell to a maximum width with ellipsis suffix.
// Requires maxWidth > 3 so there is room for both content and the ellipsis.
func TruncateCell(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
