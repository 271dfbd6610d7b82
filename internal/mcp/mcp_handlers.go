package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/core/chart"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultRowLimit caps search_rows when the caller gives no limit.
const defaultRowLimit = 100

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	src     contract.DatasetSource
	mgr     contract.StoreManager
}

// configFor applies the year selection of a request to a copy of the base config.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if y := request.GetString("years", ""); y != "" {
		years, err := contract.SelectYears([]string{y}, cfg.YearOptions)
		if err != nil {
			return nil, err
		}
		cfg.Years = years
	}
	return cfg, nil
}

// filtered opens the dataset and narrows both series to the configured years.
func (h *toolHandler) filtered(ctx context.Context, cfg *contract.Config) (primary, secondary *schema.SeriesTable, err error) {
	ds, err := h.src.Open(ctx)
	if err != nil {
		return nil, nil, err
	}
	return core.FilterByYears(ds.Primary, cfg.Years), core.FilterByYears(ds.Secondary, cfg.Years), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid years: %v", err)), nil
	}

	_, dash, err := core.ComputeDashboard(core.WithSuppressHeader(ctx), h.src, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summary failed: %v", err)), nil
	}
	return jsonResult(dash.Summary)
}

func (h *toolHandler) handleGetBreakdown(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := schema.BucketKind(request.GetString("bucket", ""))
	if _, ok := schema.ValidBucketKinds[kind]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid bucket %q: must be weekday, month or quarter", kind)), nil
	}
	op := schema.ReduceOp(request.GetString("op", string(schema.MeanOp)))
	if _, ok := schema.ValidReduceOps[op]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid op %q: must be mean or sum", op)), nil
	}
	key := schema.SeriesKey(request.GetString("series", string(schema.PrimarySeries)))
	if _, ok := schema.ValidSeriesKeys[key]; !ok {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series %q: must be primary or secondary", key)), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid years: %v", err)), nil
	}

	primary, secondary, err := h.filtered(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("breakdown failed: %v", err)), nil
	}
	table := primary
	if key == schema.SecondarySeries {
		table = secondary
	}
	b := core.Breakdown(table, kind, op)
	b.Years = cfg.Years.Sorted()
	return jsonResult(b)
}

// searchResult is the payload of search_rows.
type searchResult struct {
	Query string           `json:"query"`
	Total int              `json:"total"`
	Rows  []schema.FlatRow `json:"rows"`
}

func (h *toolHandler) handleSearchRows(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRowLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid years: %v", err)), nil
	}

	primary, secondary, err := h.filtered(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	query := request.GetString("query", "")
	rows := core.SearchRows(core.CombineRows(primary, secondary), query)
	result := searchResult{Query: query, Total: len(rows), Rows: rows}
	if len(rows) > limit {
		result.Rows = rows[:limit]
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetCharts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid years: %v", err)), nil
	}
	if b := request.GetInt("bins", 0); b != 0 {
		if b < 1 || b > contract.MaxBins {
			return mcp.NewToolResultError(fmt.Sprintf("bins must be between 1 and %d", contract.MaxBins)), nil
		}
		cfg.Bins = b
	}

	primary, secondary, err := h.filtered(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("charts failed: %v", err)), nil
	}
	return jsonResult(chart.Build(primary, secondary, chart.Options{Bins: cfg.Bins}))
}
