package core

import (
	"context"
	"strings"
	"time"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
)

// runStoreOf returns the history store, tolerating a nil manager.
func runStoreOf(mgr contract.StoreManager) contract.RunStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetRunStore()
}

// runConfigParams captures what a run was computed with.
func runConfigParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"years":             cfg.Years.Sorted(),
		"align":             string(cfg.Align),
		"latest_by":         string(cfg.LatestBy),
		"data_dirs":         strings.Join(cfg.DataDirs, ","),
		"primary_pattern":   cfg.Primary.Pattern,
		"secondary_pattern": cfg.Secondary.Pattern,
		"query":             cfg.Query,
		"bins":              cfg.Bins,
	}
}

// paramsFromConfig turns the configuration into dashboard parameters.
func paramsFromConfig(cfg *contract.Config) DashboardParams {
	return DashboardParams{
		Years:     cfg.Years,
		Alignment: cfg.Align,
		Query:     cfg.Query,
		Bins:      cfg.Bins,
	}
}

// ComputeDashboard loads the dataset and builds the dashboard for cfg.
// When history is configured the computation is recorded as a run; recording
// problems are reported as warnings and never fail the computation.
func ComputeDashboard(ctx context.Context, src contract.DatasetSource, cfg *contract.Config, mgr contract.StoreManager) (context.Context, schema.Dashboard, error) {
	// --- 1. Load (cached by the source) ---
	ds, err := src.Open(ctx)
	if err != nil {
		return ctx, schema.Dashboard{}, err
	}
	if !shouldSuppressHeader(ctx) {
		logDashboardHeader(cfg, ds)
	}

	// --- 2. Begin Run Tracking (if configured) ---
	var runID int64
	runs := runStoreOf(mgr)
	if runs != nil {
		runID, err = runs.BeginRun(time.Now(), runConfigParams(cfg))
		if err != nil {
			contract.LogWarn("Run tracking initialization failed", err)
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	// --- 3. Compute ---
	dashboard := BuildDashboard(ds, paramsFromConfig(cfg))

	// --- 4. End Run Tracking ---
	if runs != nil && runID > 0 {
		if err := runs.EndRun(runID, time.Now(), ds.Dir, dashboard.Summary); err != nil {
			contract.LogWarn("Failed to finalize run tracking", err)
		}
	}

	return ctx, dashboard, nil
}
