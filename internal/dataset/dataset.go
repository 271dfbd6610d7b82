// Package dataset locates, selects and parses the search-trend CSV files.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Load failures. All of them are fatal at startup.
var (
	ErrDirectoryNotFound = errors.New("data directory not found")
	ErrNoFilesFound      = errors.New("no matching files found")
	ErrSchema            = errors.New("missing required column")
	ErrParse             = errors.New("unparseable value")
)

// DefaultCandidates are the directories searched when none are configured.
var DefaultCandidates = []string{"data", "naverapieda/data"}

// Locate returns the first candidate that exists as a directory.
func Locate(candidates []string) (string, error) {
	for _, dir := range candidates {
		if dir == "" {
			continue
		}
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrDirectoryNotFound, strings.Join(candidates, ", "))
}
