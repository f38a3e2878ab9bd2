// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mfofanah/dhistat/internal/contract"
)

// NewMCPServer initializes and configures the dhistat MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Facility Data Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: normalize_period ---
	s.AddTool(mcp.NewTool("normalize_period",
		mcp.WithDescription("Resolve a free-text reporting period label to a calendar year and month."),
		mcp.WithString("label", mcp.Description("The period label to resolve, e.g. 'January 2015' or '2015-01'."), mcp.Required()),
	), h.handleNormalizePeriod)

	// --- 2. Tool: aggregate_levels ---
	s.AddTool(mcp.NewTool("aggregate_levels",
		mcp.WithDescription("Normalize a facility CSV file and aggregate its metrics over the administrative hierarchy."),
		mcp.WithString("input_file", mcp.Description("Path to the facility CSV file."), mcp.Required()),
		mcp.WithString("levels", mcp.Description("Comma-separated level names (adm1, adm2, adm3, adm4, hf). Defaults to all levels.")),
		mcp.WithString("period_column", mcp.Description("Name of the period label column. Defaults to 'period_name'.")),
	), h.handleAggregateLevels)

	return s
}

// StartMCPServer starts the dhistat MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
