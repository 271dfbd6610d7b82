// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// yearsDescription is shared by every tool that accepts a year selection.
const yearsDescription = "Comma-separated years to include (e.g. '2024,2025'). Defaults to every available year; 'none' selects nothing."

// NewMCPServer initializes and configures the trendscope MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, src contract.DatasetSource, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Trendscope Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		src:     src,
		mgr:     mgr,
	}

	// --- 1. Tool: get_summary ---
	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Headline metrics for both search-trend series: row counts, means, maxima and their correlation."),
		mcp.WithString("years", mcp.Description(yearsDescription)),
	), h.handleGetSummary)

	// --- 2. Tool: get_breakdown ---
	s.AddTool(mcp.NewTool("get_breakdown",
		mcp.WithDescription("Reduce one series into calendar buckets (weekday, month or quarter)."),
		mcp.WithString("bucket", mcp.Description("Bucket kind."), mcp.Enum("weekday", "month", "quarter"), mcp.Required()),
		mcp.WithString("op", mcp.Description("Reduce operation. Defaults to 'mean'."), mcp.Enum("mean", "sum")),
		mcp.WithString("series", mcp.Description("Series to bucket. Defaults to 'primary'."), mcp.Enum("primary", "secondary")),
		mcp.WithString("years", mcp.Description(yearsDescription)),
	), h.handleGetBreakdown)

	// --- 3. Tool: search_rows ---
	s.AddTool(mcp.NewTool("search_rows",
		mcp.WithDescription("Search the combined rows of both series by case-insensitive substring over every column."),
		mcp.WithString("query", mcp.Description("Substring to match, e.g. '2024-05' or 'Saturday'. Empty returns every row.")),
		mcp.WithString("years", mcp.Description(yearsDescription)),
		mcp.WithNumber("limit", mcp.Description("Maximum rows returned. Defaults to 100.")),
	), h.handleSearchRows)

	// --- 4. Tool: get_charts ---
	s.AddTool(mcp.NewTool("get_charts",
		mcp.WithDescription("Chart descriptors of the dashboard as data: time series, monthly box, weekday bar, quarter share, scatter with trend, histogram and weekend split."),
		mcp.WithString("years", mcp.Description(yearsDescription)),
		mcp.WithNumber("bins", mcp.Description("Histogram bin count.")),
	), h.handleGetCharts)

	return s
}

// StartMCPServer starts the trendscope MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, src contract.DatasetSource, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, src, mgr)
	return server.ServeStdio(s)
}
