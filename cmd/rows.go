package cmd

import (
	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/spf13/cobra"
)

// rowsCmd lists the combined rows of both series.
var rowsCmd = &cobra.Command{
	Use:   "rows",
	Short: "List the rows of both series, optionally filtered by a search query.",
	Long: `Print every row of both series with its derived calendar fields.

The query is matched case-insensitively against every displayed column,
so "2024-05", "saturday" and "true" all work.

Examples:
  # Weekend rows of 2025
  trendscope rows --years 2025 --query true

  # Rows of May 2024 as JSON
  trendscope rows -q 2024-05 --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRows(rootCtx, cfg, session, storeManager); err != nil {
			contract.LogFatal("Cannot list rows", err)
		}
	},
}

// exportCmd writes the combined rows to a CSV file.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the selected rows to a UTF-8 CSV file that spreadsheets open correctly.",
	Long: `Write the rows selected by --years and --query to CSV.

The file starts with a UTF-8 byte order mark so spreadsheet tools show Korean labels correctly.
It is written to --output-file, or to --export-name in the current directory.

Examples:
  # Export everything
  trendscope export

  # Export 2024 weekend rows to a chosen file
  trendscope export --years 2024 --query true --output-file weekend.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, session, storeManager); err != nil {
			contract.LogFatal("Cannot export rows", err)
		}
	},
}
