package cmd

import (
	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/spf13/cobra"
)

// chartsCmd builds the chart descriptors and optionally renders them.
var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Build the dashboard charts as data, and optionally render them as PNG.",
	Long: `Compute every chart of the dashboard for the selected years.

Charts:
- timeseries: both series over time
- monthly_box: distribution per month and year
- weekday_bar: mean per weekday
- quarter_share: share of the total per quarter
- scatter: gift card against brand, with a least squares trend line
- histogram: distribution of the brand series
- weekend_violin: weekday against weekend distribution

With --png-dir the charts that have a raster form are written as PNG files.

Examples:
  # Chart data as JSON
  trendscope charts --output json

  # Render PNG files for 2025
  trendscope charts --years 2025 --png-dir ./charts`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCharts(rootCtx, cfg, session, storeManager); err != nil {
			contract.LogFatal("Cannot build charts", err)
		}
	},
}
