package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mfofanah/dhistat/core"
	"github.com/mfofanah/dhistat/core/agg"
	"github.com/mfofanah/dhistat/core/period"
	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/internal/tabload"
	"github.com/mfofanah/dhistat/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// periodPayload is the JSON shape of a normalize_period result.
type periodPayload struct {
	Label     string `json:"label"`
	Resolved  bool   `json:"resolved"`
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	YearMonth string `json:"year_month,omitempty"`
}

// levelPayload is the JSON shape of one level in an aggregate_levels result.
type levelPayload struct {
	Level          string         `json:"level"`
	Skipped        bool           `json:"skipped"`
	MissingColumns []string       `json:"missing_columns,omitempty"`
	Values         []valuePayload `json:"values,omitempty"`
}

// valuePayload is one aggregated metric value with its grouping key tuple.
type valuePayload struct {
	Keys   json.RawMessage `json:"keys"`
	Metric string          `json:"metric"`
	Value  float64         `json:"value"`
}

func (h *toolHandler) handleNormalizePeriod(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	label := request.GetString("label", "")
	if label == "" {
		return mcp.NewToolResultError("label is required"), nil
	}

	p := period.Normalize(label)
	payload := periodPayload{Label: label, Resolved: p.Resolved}
	if p.Resolved {
		payload.Year = p.Year
		payload.Month = p.Month
		payload.YearMonth = p.YearMonth()
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAggregateLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	inputFile := request.GetString("input_file", "")
	if inputFile == "" {
		return mcp.NewToolResultError("input_file is required"), nil
	}

	levels, err := schema.SelectLevels(request.GetString("levels", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid levels: %v", err)), nil
	}

	periodColumn := request.GetString("period_column", "")
	if periodColumn == "" {
		periodColumn = h.baseCfg.PeriodColumn
	}
	if periodColumn == "" {
		periodColumn = schema.PeriodColumn
	}

	ds, err := tabload.LoadCSV(inputFile, periodColumn)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load dataset: %v", err)), nil
	}

	normalized, _, err := core.NormalizeDataset(ctx, ds, periodColumn, h.baseCfg.Workers)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("normalization failed: %v", err)), nil
	}

	results, err := agg.AggregateLevels(ctx, normalized, levels)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	payload := make([]levelPayload, 0, len(results))
	for i, result := range results {
		lp := levelPayload{
			Level:          result.LevelName,
			Skipped:        result.Skipped(),
			MissingColumns: result.Missing,
		}
		if !result.Skipped() {
			values, err := agg.LongValues(result, levels[i])
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to flatten level %s: %v", result.LevelName, err)), nil
			}
			for _, v := range values {
				lp.Values = append(lp.Values, valuePayload{
					Keys:   json.RawMessage(v.GroupKeys),
					Metric: v.Metric,
					Value:  v.Value,
				})
			}
		}
		payload = append(payload, lp)
	}

	jsonData, _ := json.MarshalIndent(payload, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
