package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/trendscope/schema"
)

// Color variables for console output.
var (
	StrongColor   = color.New(color.FgRed, color.Bold) // StrongColor marks |r| >= 0.7.
	ModerateColor = color.New(color.FgYellow)          // ModerateColor marks |r| >= 0.4.
	WeakColor     = color.New(color.FgCyan)            // WeakColor marks |r| >= 0.1.
	FaintColor    = color.New(color.Faint)             // FaintColor marks no correlation or no data.
)

// GetPlainLabel returns a plain text label for the strength of a correlation.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(r schema.OptFloat) string {
	return schema.CorrelationLabel(r)
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(r schema.OptFloat) string {
	text := GetPlainLabel(r)

	switch text {
	case schema.StrongCorrelation:
		return StrongColor.Sprint(text)
	case schema.ModerateCorrelation:
		return ModerateColor.Sprint(text)
	case schema.WeakCorrelation:
		return WeakColor.Sprint(text)
	default:
		return FaintColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".trendscope_runs.db"
	}
	return filepath.Join(homeDir, ".trendscope_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
