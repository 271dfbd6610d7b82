package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/huangsam/trendscope/schema"
)

// Loader reads both series out of a data directory.
// It does not cache; see core.Session for memoization.
type Loader struct {
	Policy    SelectionPolicy
	Primary   schema.SeriesSpec
	Secondary schema.SeriesSpec
}

// NewLoader creates a loader. A nil policy means LexicalPolicy.
func NewLoader(policy SelectionPolicy, primary, secondary schema.SeriesSpec) *Loader {
	if policy == nil {
		policy = LexicalPolicy{}
	}
	return &Loader{Policy: policy, Primary: primary, Secondary: secondary}
}

// Matches lists the files in dir whose base name matches pattern, sorted by name.
func Matches(dir, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Load reads the file chosen by the policy for one series.
func (l *Loader) Load(spec schema.SeriesSpec, dir string) (*schema.SeriesTable, error) {
	paths, err := Matches(dir, spec.Pattern)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s series has no file matching %q in %s", ErrNoFilesFound, spec.Key, spec.Pattern, dir)
	}
	path, err := l.Policy.Select(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s series file: %w", spec.Key, err)
	}
	rows, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &schema.SeriesTable{
		Key:    spec.Key,
		Label:  spec.Label,
		Source: path,
		Rows:   rows,
	}, nil
}

// LoadDataset loads both series. Any failure aborts the whole load.
func (l *Loader) LoadDataset(dir string) (*schema.Dataset, error) {
	primary, err := l.Load(l.Primary, dir)
	if err != nil {
		return nil, err
	}
	secondary, err := l.Load(l.Secondary, dir)
	if err != nil {
		return nil, err
	}
	return &schema.Dataset{
		Dir:       dir,
		Primary:   primary,
		Secondary: secondary,
		LoadedAt:  time.Now(),
	}, nil
}
