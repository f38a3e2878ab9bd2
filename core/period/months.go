package period

import (
	"fmt"
	"strconv"
	"strings"
)

// monthAbbrevs are the English 3-letter month abbreviations, January first.
var monthAbbrevs = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// monthNames are the full English month names, January first.
var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// monthsByName maps lowercase month tokens (abbreviated and full) to 1..12.
var monthsByName = buildMonthLookup()

func buildMonthLookup() map[string]int {
	lookup := make(map[string]int, len(monthAbbrevs)+len(monthNames))
	for i, abbr := range monthAbbrevs {
		lookup[abbr] = i + 1
	}
	for i, name := range monthNames {
		lookup[name] = i + 1
	}
	return lookup
}

// parseMonthName resolves a month name token (abbreviated or full,
// case-insensitive) to a calendar month.
func parseMonthName(token string) (int, error) {
	month, ok := monthsByName[strings.ToLower(strings.TrimSpace(token))]
	if !ok {
		return 0, fmt.Errorf("unknown month name %q", token)
	}
	return month, nil
}

// parseMonthNumber resolves a numeric month token, rejecting values outside
// the 1..12 calendar range.
func parseMonthNumber(token string) (int, error) {
	month, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid month number %q: %w", token, err)
	}
	if month < 1 || month > 12 {
		return 0, fmt.Errorf("month %d out of range 1..12", month)
	}
	return month, nil
}

// parseYearNumber resolves a numeric year token.
func parseYearNumber(token string) (int, error) {
	year, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("invalid year %q: %w", token, err)
	}
	return year, nil
}
