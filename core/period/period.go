// Package period classifies and parses free-text period labels into a
// canonical (year, month) representation.
package period

import (
	"regexp"
	"strings"

	"github.com/mfofanah/dhistat/schema"
)

// FormatRule pairs a shape predicate with the parser for one textual period
// convention. Rules are evaluated top to bottom and the FIRST matching
// predicate wins; order matters because several predicates structurally
// overlap. When a matched rule's parser fails, the label is unresolved --
// later rules are never consulted.
type FormatRule struct {
	Name    string // Token order description, e.g. "abbreviated-month dash year"
	Example string // Canonical exemplar, e.g. "Jan-2015"
	Match   func(s string) bool
	Parse   func(s string) (schema.ParsedPeriod, error)
}

// Shape regexes for the numeric conventions.
var (
	monthDashYearRe  = regexp.MustCompile(`^\d{2}-\d{4}$`)
	monthSlashYearRe = regexp.MustCompile(`^\d{2}/\d{4}$`)
	monthDotYearRe   = regexp.MustCompile(`^\d{2}\.\d{4}$`)
	yearDashMonthRe  = regexp.MustCompile(`^\d{4}-\d{2}$`)
	yearSlashMonthRe = regexp.MustCompile(`^\d{4}/\d{2}$`)
	yearDotMonthRe   = regexp.MustCompile(`^\d{4}\.\d{2}$`)
	fullMonthYearRe  = regexp.MustCompile(`^[A-Za-z]{3,}\d{4}$`)
	abbrMonthYearRe  = regexp.MustCompile(`^[A-Za-z]{3}\d{4}$`)
	sixDigitsRe      = regexp.MustCompile(`^\d{6}$`)
)

// Rules is the ordered classification table. Two known collisions are
// preserved deliberately: rule 12 shares rule 11's predicate and is
// unreachable, and rule 16 shares rule 15's predicate, so 6-digit labels are
// always read as YYYYMM. Changing either collision changes observable
// behavior and needs a product decision first.
var Rules = []FormatRule{
	{
		// 1: Jan-2015
		Name:    "abbreviated-month dash year",
		Example: "Jan-2015",
		Match:   func(s string) bool { return len(s) == 8 && s[3] == '-' },
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNameThenYear(s[:3], s[4:]) },
	},
	{
		// 2: Jan 2015
		Name:    "abbreviated-month space year",
		Example: "Jan 2015",
		Match:   func(s string) bool { return len(s) == 8 && s[3] == ' ' },
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNameThenYear(s[:3], s[4:]) },
	},
	{
		// 3: January-2015. The leading token must not be all digits, or this
		// rule would swallow year-first labels like 2015-01 before rule 8.
		Name:    "full-month dash year",
		Example: "January-2015",
		Match: func(s string) bool {
			before, _, found := strings.Cut(s, "-")
			return found && len(before) > 3 && !isDigits(before)
		},
		Parse: func(s string) (schema.ParsedPeriod, error) {
			before, after, _ := strings.Cut(s, "-")
			return monthNameThenYear(before, after)
		},
	},
	{
		// 4: January 2015. Same digit guard as rule 3, so that 2015 Jan
		// reaches rule 11.
		Name:    "full-month space year",
		Example: "January 2015",
		Match: func(s string) bool {
			before, _, found := strings.Cut(s, " ")
			return found && len(before) > 3 && !isDigits(before)
		},
		Parse: func(s string) (schema.ParsedPeriod, error) {
			before, after, _ := strings.Cut(s, " ")
			return monthNameThenYear(before, after)
		},
	},
	{
		// 5: 01-2015
		Name:    "numeric month dash year",
		Example: "01-2015",
		Match:   monthDashYearRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNumberThenYear(s[:2], s[3:]) },
	},
	{
		// 6: 01/2015
		Name:    "numeric month slash year",
		Example: "01/2015",
		Match:   monthSlashYearRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNumberThenYear(s[:2], s[3:]) },
	},
	{
		// 7: 01.2015
		Name:    "numeric month dot year",
		Example: "01.2015",
		Match:   monthDotYearRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNumberThenYear(s[:2], s[3:]) },
	},
	{
		// 8: 2015-01
		Name:    "year dash numeric month",
		Example: "2015-01",
		Match:   yearDashMonthRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return yearThenMonthNumber(s[:4], s[5:]) },
	},
	{
		// 9: 2015/01
		Name:    "year slash numeric month",
		Example: "2015/01",
		Match:   yearSlashMonthRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return yearThenMonthNumber(s[:4], s[5:]) },
	},
	{
		// 10: 2015.01
		Name:    "year dot numeric month",
		Example: "2015.01",
		Match:   yearDotMonthRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return yearThenMonthNumber(s[:4], s[5:]) },
	},
	{
		// 11: 2015 Jan
		Name:    "year space abbreviated-month",
		Example: "2015 Jan",
		Match:   matchYearSpaceMonth,
		Parse:   parseYearSpaceMonth,
	},
	{
		// 12: 2015 January -- same predicate as rule 11, unreachable.
		Name:    "year space full-month",
		Example: "2015 January",
		Match:   matchYearSpaceMonth,
		Parse:   parseYearSpaceMonth,
	},
	{
		// 13: January2015
		Name:    "full-month year, no separator",
		Example: "January2015",
		Match:   fullMonthYearRe.MatchString,
		Parse: func(s string) (schema.ParsedPeriod, error) {
			return monthNameThenYear(s[:len(s)-4], s[len(s)-4:])
		},
	},
	{
		// 14: Jan2015 -- rule 13's predicate also covers 3-letter names, so
		// this rule only exists to keep the classification table complete.
		Name:    "abbreviated-month year, no separator",
		Example: "Jan2015",
		Match:   abbrMonthYearRe.MatchString,
		Parse: func(s string) (schema.ParsedPeriod, error) {
			return monthNameThenYear(s[:3], s[3:])
		},
	},
	{
		// 15: 201501
		Name:    "year month concatenated",
		Example: "201501",
		Match:   sixDigitsRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return yearThenMonthNumber(s[:4], s[4:]) },
	},
	{
		// 16: 012015 -- same predicate as rule 15, unreachable. 6-digit
		// labels are always interpreted as YYYYMM.
		Name:    "month year concatenated",
		Example: "012015",
		Match:   sixDigitsRe.MatchString,
		Parse:   func(s string) (schema.ParsedPeriod, error) { return monthNumberThenYear(s[:2], s[2:]) },
	},
}

// Normalize classifies and parses one raw period label. It is pure and
// total: whitespace is trimmed, empty input and unrecognized or unparseable
// labels yield the unresolved outcome, and no failure escapes as an error.
func Normalize(raw string) schema.ParsedPeriod {
	s := strings.TrimSpace(raw)
	if s == "" {
		return schema.Unresolved
	}

	for _, rule := range Rules {
		if !rule.Match(s) {
			continue
		}
		p, err := rule.Parse(s)
		if err != nil {
			return schema.Unresolved
		}
		return p
	}
	return schema.Unresolved
}

// matchYearSpaceMonth accepts two space-separated tokens whose first token
// is a 4-digit year.
func matchYearSpaceMonth(s string) bool {
	parts := strings.Split(s, " ")
	return len(parts) == 2 && len(parts[0]) == 4 && isDigits(parts[0])
}

// parseYearSpaceMonth parses "YYYY <month-name>"; the shared month lookup
// accepts both abbreviated and full names.
func parseYearSpaceMonth(s string) (schema.ParsedPeriod, error) {
	parts := strings.Split(s, " ")
	year, err := parseYearNumber(parts[0])
	if err != nil {
		return schema.Unresolved, err
	}
	month, err := parseMonthName(parts[1])
	if err != nil {
		return schema.Unresolved, err
	}
	return schema.NewResolved(month, year), nil
}

// monthNameThenYear parses a month-name token followed by a year token.
func monthNameThenYear(monthToken, yearToken string) (schema.ParsedPeriod, error) {
	month, err := parseMonthName(monthToken)
	if err != nil {
		return schema.Unresolved, err
	}
	year, err := parseYearNumber(yearToken)
	if err != nil {
		return schema.Unresolved, err
	}
	return schema.NewResolved(month, year), nil
}

// monthNumberThenYear parses a numeric month token followed by a year token.
func monthNumberThenYear(monthToken, yearToken string) (schema.ParsedPeriod, error) {
	month, err := parseMonthNumber(monthToken)
	if err != nil {
		return schema.Unresolved, err
	}
	year, err := parseYearNumber(yearToken)
	if err != nil {
		return schema.Unresolved, err
	}
	return schema.NewResolved(month, year), nil
}

// yearThenMonthNumber parses a year token followed by a numeric month token.
func yearThenMonthNumber(yearToken, monthToken string) (schema.ParsedPeriod, error) {
	year, err := parseYearNumber(yearToken)
	if err != nil {
		return schema.Unresolved, err
	}
	month, err := parseMonthNumber(monthToken)
	if err != nil {
		return schema.Unresolved, err
	}
	return schema.NewResolved(month, year), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
