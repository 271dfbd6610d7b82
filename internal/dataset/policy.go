package dataset

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/huangsam/trendscope/schema"
)

// SelectionPolicy picks one file out of several matches for a series.
type SelectionPolicy interface {
	Select(paths []string) (string, error)
}

// LexicalPolicy picks the file whose base name sorts last byte-wise.
// Date-stamped names such as trend_2025-01.csv therefore resolve to the newest.
type LexicalPolicy struct{}

// Select implements SelectionPolicy.
func (LexicalPolicy) Select(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoFilesFound
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if filepath.Base(p) > filepath.Base(best) || (filepath.Base(p) == filepath.Base(best) && p > best) {
			best = p
		}
	}
	return best, nil
}

// ModTimePolicy picks the most recently modified file, ties broken by name.
type ModTimePolicy struct{}

// Select implements SelectionPolicy.
func (ModTimePolicy) Select(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoFilesFound
	}
	var best string
	var bestInfo os.FileInfo
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return "", err
		}
		if bestInfo == nil ||
			info.ModTime().After(bestInfo.ModTime()) ||
			(info.ModTime().Equal(bestInfo.ModTime()) && filepath.Base(p) > filepath.Base(best)) {
			best, bestInfo = p, info
		}
	}
	if best == "" {
		return "", errors.New("no selectable file")
	}
	return best, nil
}

// PolicyFor returns the policy registered under name, defaulting to LexicalPolicy.
func PolicyFor(name schema.SelectionPolicyName) SelectionPolicy {
	if name == schema.LatestByModTime {
		return ModTimePolicy{}
	}
	return LexicalPolicy{}
}
