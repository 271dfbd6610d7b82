package cmd

import (
	"runtime"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/spf13/cobra"
)

// versionCmd shows the verbose version for diagnostic purposes.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of trendscope.",
	Long: `Display version information including build details and the built-in data defaults.

Useful for:
- Verifying correct binary installation
- Checking which file patterns a build looks for
- Reporting bugs with version details`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("trendscope CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s\n", runtime.Version())
		cmd.Printf("  Data:    %s\n", contract.DefaultDataDirs)
		cmd.Printf("  Series:  %q, %q\n", contract.DefaultPrimaryPattern, contract.DefaultSecondaryPattern)
	},
}
