package cmd

import (
	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd shows the headline metrics.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show row counts, means, maxima and the correlation of both series.",
	Long: `Load the latest file of each series and print the headline metrics for the selected years.

Shows:
- Rows, mean and max of the brand and gift card series
- Pearson correlation between the two, with a strength label
- The covered period

Each run is recorded in the run history when --run-backend is set.

Examples:
  # Metrics over every available year
  trendscope summary

  # Only 2025, as JSON
  trendscope summary --years 2025 --output json

  # Save to a spreadsheet
  trendscope summary --output xlsx --output-file summary.xlsx`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, session, storeManager); err != nil {
			contract.LogFatal("Cannot compute summary", err)
		}
	},
}
