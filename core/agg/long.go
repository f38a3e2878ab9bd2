package agg

import (
	"encoding/json"
	"fmt"

	"github.com/mfofanah/dhistat/schema"
)

// LongValues flattens an aggregated level table into long-format records for
// the results store: one record per group and metric, with the grouping key
// tuple serialized as a JSON object. Skipped levels produce no records.
func LongValues(result *Result, level schema.AggregationLevel) ([]schema.LevelValue, error) {
	if result.Skipped() {
		return nil, nil
	}

	table := result.Table
	metricStart := len(level.Keys)

	var values []schema.LevelValue
	for ri, row := range table.Rows {
		tuple := make(map[string]any, metricStart)
		for _, k := range level.Keys {
			tuple[k] = table.Value(ri, k)
		}
		encoded, err := json.Marshal(tuple)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key tuple: %w", err)
		}

		for ci := metricStart; ci < len(table.Columns); ci++ {
			n, ok := schema.AsNumber(row[ci])
			if !ok {
				continue
			}
			values = append(values, schema.LevelValue{
				Level:     result.LevelName,
				GroupKeys: string(encoded),
				Metric:    table.Columns[ci],
				Value:     n,
			})
		}
	}
	return values, nil
}
