// Package cmd defines the command-line interface for trendscope.
package cmd

import (
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("data-dirs", contract.DefaultDataDirs, "Comma-separated data directories; the first existing one is used")
	rootCmd.PersistentFlags().String("primary-pattern", contract.DefaultPrimaryPattern, "File pattern of the brand series")
	rootCmd.PersistentFlags().String("primary-label", contract.DefaultPrimaryLabel, "Display label of the brand series")
	rootCmd.PersistentFlags().String("secondary-pattern", contract.DefaultSecondaryPattern, "File pattern of the gift card series")
	rootCmd.PersistentFlags().String("secondary-label", contract.DefaultSecondaryLabel, "Display label of the gift card series")
	rootCmd.PersistentFlags().String("latest-by", string(schema.LatestByName), "How the latest file is chosen: name or mtime")
	rootCmd.PersistentFlags().String("align", string(schema.TimestampAlign), "How series are paired for correlation: timestamp or position")
	rootCmd.PersistentFlags().String("year-options", contract.DefaultYearOptions, "Comma-separated years that can be selected")
	rootCmd.PersistentFlags().StringP("years", "y", "", "Comma-separated years to include (default: all options, 'none' for nothing)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or xlsx")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("run-backend", "", "Run history backend: sqlite or mysql or postgresql or none (empty disables)")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for mysql/postgresql run history")
	rootCmd.PersistentFlags().String("log-level", "info", "Server log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of breakdownCmd to Viper
	breakdownCmd.Flags().String("by", string(schema.WeekdayBucket), "Bucket kind: weekday or month or quarter")
	breakdownCmd.Flags().String("op", string(schema.MeanOp), "Reduce operation: mean or sum")
	breakdownCmd.Flags().String("series", string(schema.PrimarySeries), "Series to bucket: primary or secondary")
	if err := viper.BindPFlags(breakdownCmd.Flags()); err != nil {
		contract.LogFatal("Error binding breakdown flags", err)
	}

	// Bind all flags of rowsCmd and exportCmd to Viper
	rowsCmd.Flags().StringP("query", "q", "", "Case-insensitive substring matched against every column")
	if err := viper.BindPFlags(rowsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rows flags", err)
	}
	exportCmd.Flags().StringP("query", "q", "", "Case-insensitive substring matched against every column")
	exportCmd.Flags().String("export-name", contract.DefaultExportName, "File written when --output-file is not set")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding export flags", err)
	}

	// Bind all flags of chartsCmd to Viper
	chartsCmd.Flags().Int("bins", contract.DefaultBins, "Histogram bin count")
	chartsCmd.Flags().String("png-dir", "", "Directory to render PNG charts into")
	if err := viper.BindPFlags(chartsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding charts flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Address the dashboard listens on")
	serveCmd.Flags().String("export-name", contract.DefaultExportName, "File name offered by the CSV download")
	serveCmd.Flags().Int("bins", contract.DefaultBins, "Histogram bin count")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
