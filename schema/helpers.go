package schema

// AsNumber reports whether a cell value is numeric and returns it as a
// float64. Only float64 cells count as numeric; strings are never coerced
// here because type inference happens once at load time.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsString returns a cell value as a string when it holds one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// NumericColumns returns the names of columns whose non-nil values are all
// numeric, with at least one non-nil value present.
func (ds *Dataset) NumericColumns() []string {
	var numeric []string
	for ci, name := range ds.Columns {
		seen := false
		allNumeric := true
		for _, row := range ds.Rows {
			v := row[ci]
			if v == nil {
				continue
			}
			seen = true
			if _, ok := AsNumber(v); !ok {
				allNumeric = false
				break
			}
		}
		if seen && allNumeric {
			numeric = append(numeric, name)
		}
	}
	return numeric
}
