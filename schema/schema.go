// Package schema has configs, models and global variables for all parts of trendscope.
package schema

import (
	"strconv"
	"strings"
	"time"
)

// Row is a single observation of a search-trend series.
// The calendar fields are derived from Period once at load time.
type Row struct {
	Period    time.Time `json:"period"`     // Observation date
	Ratio     float64   `json:"ratio"`      // Relative search intensity, typically 0-100
	Year      int       `json:"year"`       // Calendar year of Period
	Month     int       `json:"month"`      // Calendar month of Period (1-12)
	DayName   string    `json:"dayofweek"`  // Full English weekday name (e.g. "Monday")
	IsWeekend bool      `json:"is_weekend"` // True on Saturday and Sunday
}

// NewRow builds a Row and derives its calendar fields from period.
func NewRow(period time.Time, ratio float64) Row {
	wd := period.Weekday()
	return Row{
		Period:    period,
		Ratio:     ratio,
		Year:      period.Year(),
		Month:     int(period.Month()),
		DayName:   wd.String(),
		IsWeekend: wd == time.Saturday || wd == time.Sunday,
	}
}

// SeriesSpec describes how to find one logical series on disk.
type SeriesSpec struct {
	Key     SeriesKey // primary or secondary
	Label   string    // Display label
	Pattern string    // Filename glob, matched against base names
}

// SeriesTable is an ordered table of rows for one logical series.
// Rows keep file order and duplicate periods are preserved.
type SeriesTable struct {
	Key    SeriesKey `json:"key"`
	Label  string    `json:"label"`
	Source string    `json:"source"` // File the rows were read from
	Rows   []Row     `json:"rows"`
}

// Len returns the number of rows.
func (t *SeriesTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Ratios returns the ratio column in row order.
func (t *SeriesTable) Ratios() []float64 {
	if t == nil {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Ratio
	}
	return out
}

// WithRows returns a new table sharing this table's metadata but holding rows.
func (t *SeriesTable) WithRows(rows []Row) *SeriesTable {
	return &SeriesTable{
		Key:    t.Key,
		Label:  t.Label,
		Source: t.Source,
		Rows:   rows,
	}
}

// Dataset holds both series loaded from one directory.
// It is read-only once loaded; filters always produce new tables.
type Dataset struct {
	Dir       string       `json:"dir"`
	Primary   *SeriesTable `json:"primary"`
	Secondary *SeriesTable `json:"secondary"`
	LoadedAt  time.Time    `json:"loaded_at"`
}

// Series returns the table for the given key, or nil for unknown keys.
func (d *Dataset) Series(key SeriesKey) *SeriesTable {
	switch key {
	case PrimarySeries:
		return d.Primary
	case SecondarySeries:
		return d.Secondary
	default:
		return nil
	}
}

// FlatColumns lists the columns of the combined table, in order.
var FlatColumns = []string{"period", "ratio", "month", "year", "dayofweek", "is_weekend", "series"}

// FlatRow is one line of the combined table: a Row tagged with its series label.
type FlatRow struct {
	Row
	Series string `json:"series"`
}

// PeriodLayout is the date layout used when stringifying periods.
const PeriodLayout = "2006-01-02"

// Strings returns the row's fields as display strings in FlatColumns order.
func (f FlatRow) Strings() []string {
	return []string{
		FormatPeriod(f.Period),
		FormatRatio(f.Ratio),
		strconv.Itoa(f.Month),
		strconv.Itoa(f.Year),
		f.DayName,
		FormatBool(f.IsWeekend),
		f.Series,
	}
}

// FormatPeriod renders a period as a date, adding the clock only when it is set.
func FormatPeriod(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(PeriodLayout)
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatRatio renders a ratio in its shortest form, always keeping a decimal point.
func FormatRatio(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// FormatBool renders booleans as True or False.
func FormatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
