package schema

import "fmt"

// ParsedPeriod is the outcome of normalizing one raw period label.
// It is either resolved to a calendar month and year, or unresolved when the
// label was empty, missing, or matched no recognized format. The zero value
// is the unresolved outcome.
type ParsedPeriod struct {
	Month    int  // Calendar month 1..12, valid only when Resolved
	Year     int  // Calendar year, valid only when Resolved
	Resolved bool // Whether the label was successfully parsed
}

// Unresolved is the ParsedPeriod returned for labels that cannot be parsed.
var Unresolved = ParsedPeriod{}

// NewResolved creates a resolved period for the given month and year.
func NewResolved(month, year int) ParsedPeriod {
	return ParsedPeriod{Month: month, Year: year, Resolved: true}
}

// YearMonth returns the canonical "YYYY-MM" representation with a
// zero-padded month. It is a pure function of (Year, Month) and returns the
// empty string for unresolved periods.
func (p ParsedPeriod) YearMonth() string {
	if !p.Resolved {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// String implements fmt.Stringer for diagnostics.
func (p ParsedPeriod) String() string {
	if !p.Resolved {
		return "unresolved"
	}
	return p.YearMonth()
}
