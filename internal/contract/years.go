package contract

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/trendscope/schema"
)

// NoYears is the selection value that selects nothing.
const NoYears = "none"

// ParseYearOptions parses a comma-separated list of available years.
// The result is sorted and free of duplicates.
func ParseYearOptions(s string) ([]int, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("year-options must list at least one year")
	}
	years := make([]int, 0, len(parts))
	for _, p := range parts {
		y, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid year option %q", p)
		}
		years = append(years, y)
	}
	slices.Sort(years)
	return slices.Compact(years), nil
}

// SelectYears resolves a year selection against the available options.
// Each value may hold one year or a comma-separated list. No years at all
// selects every option, and the single value "none" selects the empty set.
// Years outside options are rejected.
func SelectYears(values []string, options []int) (schema.YearSet, error) {
	var tokens []string
	for _, v := range values {
		tokens = append(tokens, splitList(v)...)
	}
	if len(tokens) == 0 {
		return schema.NewYearSet(options...), nil
	}
	if len(tokens) == 1 && strings.EqualFold(tokens[0], NoYears) {
		return schema.NewYearSet(), nil
	}

	set := schema.NewYearSet()
	for _, tok := range tokens {
		y, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", tok)
		}
		if !slices.Contains(options, y) {
			return nil, fmt.Errorf("year %d is not one of the available years (%s)", y, schema.NewYearSet(options...))
		}
		set[y] = struct{}{}
	}
	return set, nil
}
