// Package core has the dashboard pipeline: dataset session, filtering, metrics and views.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/trendscope/core/chart"
	"github.com/huangsam/trendscope/internal/chartpng"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/outwriter"
	"github.com/huangsam/trendscope/schema"
)

// ExecutorFunc defines the function signature for executing the CLI views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, mgr contract.StoreManager) error

// ExecuteSummary computes the headline metrics and prints them.
// It is the only CLI view recorded in the run history.
func ExecuteSummary(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, mgr contract.StoreManager) error {
	start := time.Now()
	_, dashboard, err := ComputeDashboard(ctx, src, cfg, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSummary(dashboard.Summary, cfg, duration)
}

// ExecuteBreakdown reduces the configured series over the configured calendar bucket.
func ExecuteBreakdown(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, _ contract.StoreManager) error {
	ds, err := openSelected(ctx, cfg, src)
	if err != nil {
		return err
	}
	table := FilterByYears(ds.Series(cfg.Series), cfg.Years)
	b := Breakdown(table, cfg.By, cfg.Op)
	b.Years = cfg.Years.Sorted()
	return outwriter.NewOutWriter().WriteBreakdowns([]schema.Breakdown{b}, cfg)
}

// ExecuteRows prints the combined flat view after the year filter and search.
func ExecuteRows(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, _ contract.StoreManager) error {
	rows, err := selectedRows(ctx, cfg, src)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteRows(rows, cfg)
}

// ExecuteExport writes the BOM CSV download of the flat view to a file.
// Without --output-file it uses the configured export name.
func ExecuteExport(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, _ contract.StoreManager) error {
	rows, err := selectedRows(ctx, cfg, src)
	if err != nil {
		return err
	}
	path := cfg.OutputFile
	if path == "" {
		path = cfg.ExportName
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := outwriter.NewOutWriter().WriteExportCSV(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Exported %d rows to %s\n", len(rows), path)
	return nil
}

// ExecuteCharts prints chart descriptors and, when a PNG directory is configured, renders the images.
func ExecuteCharts(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, _ contract.StoreManager) error {
	ds, err := openSelected(ctx, cfg, src)
	if err != nil {
		return err
	}
	set := chart.Build(FilterByYears(ds.Primary, cfg.Years), FilterByYears(ds.Secondary, cfg.Years), chart.Options{Bins: cfg.Bins})

	if cfg.PNGDir != "" {
		paths, err := chartpng.WriteFiles(cfg.PNGDir, set, chartpng.DefaultOptions)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote %d charts to %s\n", len(paths), cfg.PNGDir)
		if skipped := len(chartpng.Supported) - len(paths); skipped > 0 {
			contract.LogWarn(fmt.Sprintf("Skipped %d charts", skipped), chartpng.ErrNoData)
		}
	}
	return outwriter.NewOutWriter().WriteCharts(set, cfg)
}

// openSelected opens the dataset and prints the header unless suppressed.
func openSelected(ctx context.Context, cfg *contract.Config, src contract.DatasetSource) (*schema.Dataset, error) {
	if src == nil {
		return nil, errors.New("no dataset source")
	}
	ds, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	if !shouldSuppressHeader(ctx) {
		logDashboardHeader(cfg, ds)
	}
	return ds, nil
}

// selectedRows returns the flat view of the selected years, narrowed by the configured query.
func selectedRows(ctx context.Context, cfg *contract.Config, src contract.DatasetSource) ([]schema.FlatRow, error) {
	ds, err := openSelected(ctx, cfg, src)
	if err != nil {
		return nil, err
	}
	rows := CombineRows(FilterByYears(ds.Primary, cfg.Years), FilterByYears(ds.Secondary, cfg.Years))
	return SearchRows(rows, cfg.Query), nil
}
