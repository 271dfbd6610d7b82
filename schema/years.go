package schema

import (
	"slices"
	"strconv"
	"strings"
)

// YearSet is a set of calendar years. The zero value is the empty set.
type YearSet map[int]struct{}

// NewYearSet builds a set from the given years.
func NewYearSet(years ...int) YearSet {
	set := make(YearSet, len(years))
	for _, y := range years {
		set[y] = struct{}{}
	}
	return set
}

// Contains reports whether year is a member.
func (s YearSet) Contains(year int) bool {
	_, ok := s[year]
	return ok
}

// Sorted returns the members in ascending order.
func (s YearSet) Sorted() []int {
	out := make([]int, 0, len(s))
	for y := range s {
		out = append(out, y)
	}
	slices.Sort(out)
	return out
}

// String renders the members as a comma-separated list.
func (s YearSet) String() string {
	years := s.Sorted()
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ",")
}
