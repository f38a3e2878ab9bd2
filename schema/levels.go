package schema

import (
	"fmt"
	"strings"
)

// AggregationLevel is a named, ordered sequence of grouping-key column names.
// Levels form a strict prefix-extension chain over the administrative columns
// (adm1 up to hf), each terminated by the year and month columns.
type AggregationLevel struct {
	Name string   // Level name, e.g. "adm2"
	Keys []string // Grouping keys, e.g. [adm0 adm1 adm2 year month]
}

// DefaultLevels returns the standard administrative hierarchy levels in
// ascending granularity. Each level's keys extend the previous level by one
// administrative column.
func DefaultLevels() []AggregationLevel {
	adminChain := []string{Adm0Column, Adm1Column, Adm2Column, Adm3Column, Adm4Column, HFColumn}

	// adm0 alone is not a level; the chain starts at adm1.
	levels := make([]AggregationLevel, 0, len(adminChain)-1)
	for i := 1; i < len(adminChain); i++ {
		keys := make([]string, 0, i+3)
		keys = append(keys, adminChain[:i+1]...)
		keys = append(keys, YearColumn, MonthColumn)
		levels = append(levels, AggregationLevel{Name: adminChain[i], Keys: keys})
	}
	return levels
}

// LevelNameForKeys derives a level name from a grouping-key list: the last
// key that is not the year or month terminator. Falls back to the last key
// when every key is a time column.
func LevelNameForKeys(keys []string) string {
	for i := len(keys) - 1; i >= 0; i-- {
		if keys[i] != YearColumn && keys[i] != MonthColumn {
			return keys[i]
		}
	}
	if len(keys) > 0 {
		return keys[len(keys)-1]
	}
	return ""
}

// SelectLevels resolves a comma-separated list of level names against the
// default chain, preserving chain order. An empty selection returns all
// default levels.
func SelectLevels(selection string) ([]AggregationLevel, error) {
	defaults := DefaultLevels()
	if strings.TrimSpace(selection) == "" {
		return defaults, nil
	}

	wanted := make(map[string]struct{})
	for part := range strings.SplitSeq(selection, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for _, lvl := range defaults {
			if lvl.Name == name {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown aggregation level '%s'. must be one of adm1, adm2, adm3, adm4, hf", name)
		}
		wanted[name] = struct{}{}
	}

	selected := make([]AggregationLevel, 0, len(wanted))
	for _, lvl := range defaults {
		if _, ok := wanted[lvl.Name]; ok {
			selected = append(selected, lvl)
		}
	}
	return selected, nil
}
