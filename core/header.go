package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
)

// headerWriter receives header lines. Headers go to stderr so stdout stays machine-readable.
var headerWriter io.Writer = os.Stderr

// logDashboardHeader prints a concise, 2-line header for each computation.
func logDashboardHeader(cfg *contract.Config, ds *schema.Dataset) {
	// Line 1: where the data came from
	fmt.Fprintf(headerWriter, "🔎 Data: %s (%s, %s)\n", ds.Dir, filepath.Base(ds.Primary.Source), filepath.Base(ds.Secondary.Source))

	// Line 2: the selection being analyzed
	years := "none"
	if len(cfg.Years) > 0 {
		years = cfg.Years.String()
	}
	fmt.Fprintf(headerWriter, "📅 Years: %s (align: %s)\n", years, cfg.Align)
}
