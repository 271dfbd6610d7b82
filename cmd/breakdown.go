package cmd

import (
	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/spf13/cobra"
)

// breakdownCmd reduces a series into calendar buckets.
var breakdownCmd = &cobra.Command{
	Use:   "breakdown",
	Short: "Reduce one series by weekday, month or quarter.",
	Long: `Group the rows of one series into calendar buckets and reduce each bucket.

Buckets are always listed in calendar order (Monday first, January first, Q1 first).
Buckets without rows report "no data". The sum reduction also shows each bucket's share of the total.

Examples:
  # Average brand searches per weekday
  trendscope breakdown --by weekday

  # Total gift card searches per quarter of 2024
  trendscope breakdown --by quarter --op sum --series secondary --years 2024

  # Monthly means as CSV
  trendscope breakdown --by month --output csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBreakdown(rootCtx, cfg, session, storeManager); err != nil {
			contract.LogFatal("Cannot compute breakdown", err)
		}
	},
}
