// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/mfofanah/dhistat/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableCellWidth calculates the maximum width for one table cell based
// on terminal width and the number of columns in the dataset.
func GetMaxTableCellWidth(cfg *contract.Config, numColumns int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	if numColumns < 1 {
		numColumns = 1
	}

	// Reserve space for table borders, separators, and padding per column.
	available := (termWidth - 4*numColumns) / numColumns
	if available < 8 {
		// Minimum reasonable cell width
		return 8
	}
	if available > 40 {
		// Maximum cell width to prevent overly wide tables
		return 40
	}
	return available
}
