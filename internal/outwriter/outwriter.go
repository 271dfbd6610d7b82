// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints the headline metrics using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.Summary, cfg *contract.Config, duration time.Duration) error {
	return PrintSummary(summary, cfg, duration)
}

// WriteBreakdowns prints calendar breakdowns using the configured output format.
func (ow *OutWriter) WriteBreakdowns(breakdowns []schema.Breakdown, cfg *contract.Config) error {
	return PrintBreakdowns(breakdowns, cfg)
}

// WriteRows prints the combined flat view using the configured output format.
func (ow *OutWriter) WriteRows(rows []schema.FlatRow, cfg *contract.Config) error {
	return PrintRows(rows, cfg)
}

// WriteCharts prints chart descriptors using the configured output format.
func (ow *OutWriter) WriteCharts(set schema.ChartSet, cfg *contract.Config) error {
	return PrintCharts(set, cfg)
}

// WriteExportCSV writes the download form of the flat view to w.
func (ow *OutWriter) WriteExportCSV(w io.Writer, rows []schema.FlatRow) error {
	return WriteExportCSV(w, rows)
}

// getTerminalWidth returns the width used to size text tables.
func getTerminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxLabelWidth calculates the maximum width for bucket and series labels in table output.
func getMaxLabelWidth(cfg *contract.Config) int {
	// Reserve space for the numeric columns with borders/padding
	available := getTerminalWidth(cfg) - 50
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateLabel shortens s to at most width runes, marking the cut with an ellipsis.
func truncateLabel(s string, width int) string {
	runes := []rune(s)
	if width <= 3 || len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
