// Package chart builds the dashboard's chart descriptors from filtered series.
// Descriptors are pure data; rendering happens elsewhere.
package chart

import (
	"fmt"
	"sort"

	"github.com/huangsam/trendscope/core/agg"
	"github.com/huangsam/trendscope/core/algo"
	"github.com/huangsam/trendscope/schema"
)

// DefaultBins is the histogram bin count used when Options.Bins is unset.
const DefaultBins = 30

// Options tunes chart construction.
type Options struct {
	Bins int
}

func (o Options) bins() int {
	if o.Bins < 1 {
		return DefaultBins
	}
	return o.Bins
}

// Build produces every chart for the given series. Either table may be nil or empty.
func Build(primary, secondary *schema.SeriesTable, opts Options) schema.ChartSet {
	return schema.ChartSet{
		Timeseries:    Timeseries(primary, secondary),
		MonthlyBox:    MonthlyBox(primary),
		WeekdayBar:    WeekdayBar(primary),
		QuarterShare:  QuarterShare(primary),
		Scatter:       Scatter(primary, secondary, opts.bins()),
		Histogram:     Histogram(primary, opts.bins()),
		WeekendViolin: WeekendViolin(primary),
	}
}

func label(t *schema.SeriesTable) string {
	if t == nil {
		return ""
	}
	return t.Label
}

func rows(t *schema.SeriesTable) []schema.Row {
	if t == nil {
		return nil
	}
	return t.Rows
}

// Timeseries draws one line per non-nil table.
func Timeseries(tables ...*schema.SeriesTable) schema.TimeseriesChart {
	c := schema.TimeseriesChart{Title: "Search trend over time"}
	for _, t := range tables {
		if t == nil {
			continue
		}
		points := make([]schema.TimePoint, len(t.Rows))
		for i, r := range t.Rows {
			points[i] = schema.TimePoint{Period: r.Period, Value: r.Ratio}
		}
		c.Lines = append(c.Lines, schema.LineSeries{Key: t.Key, Name: t.Label, Points: points})
	}
	return c
}

// MonthlyBox summarizes the table per (month, year), ordered by month then year.
func MonthlyBox(t *schema.SeriesTable) schema.MonthlyBoxChart {
	type key struct{ month, year int }
	groups := map[key][]float64{}
	for _, r := range rows(t) {
		k := key{r.Month, r.Year}
		groups[k] = append(groups[k], r.Ratio)
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].month != keys[j].month {
			return keys[i].month < keys[j].month
		}
		return keys[i].year < keys[j].year
	})

	c := schema.MonthlyBoxChart{Title: fmt.Sprintf("%s distribution by month", label(t))}
	for _, k := range keys {
		c.Groups = append(c.Groups, schema.BoxGroup{
			Month:  k.month,
			Year:   k.year,
			Stats:  algo.Box(groups[k]),
			Points: groups[k],
		})
	}
	return c
}

// WeekdayBar is the mean per weekday, Monday first.
func WeekdayBar(t *schema.SeriesTable) schema.BarChart {
	return schema.BarChart{
		Title:   fmt.Sprintf("%s mean by weekday", label(t)),
		Buckets: agg.GroupReduce(rows(t), agg.Weekday{}, schema.MeanOp),
	}
}

// QuarterShare is the sum per quarter with each quarter's share of the total.
func QuarterShare(t *schema.SeriesTable) schema.PieChart {
	return schema.PieChart{
		Title:  fmt.Sprintf("%s share by quarter", label(t)),
		Slices: agg.Share(agg.GroupReduce(rows(t), agg.QuarterOfYear{}, schema.SumOp)),
	}
}

// Scatter pairs the tables on period and fits a least squares line.
func Scatter(x, y *schema.SeriesTable, bins int) schema.ScatterChart {
	xs, ys := algo.AlignByPeriod(rows(x), rows(y))
	c := schema.ScatterChart{
		Title:     fmt.Sprintf("%s vs %s", label(x), label(y)),
		XLabel:    label(x),
		YLabel:    label(y),
		Points:    make([]schema.Point, len(xs)),
		MarginalX: algo.Histogram(xs, bins),
		MarginalY: algo.Box(ys),
	}
	for i := range xs {
		c.Points[i] = schema.Point{X: xs[i], Y: ys[i]}
	}
	if line, ok := algo.Fit(xs, ys); ok {
		c.Trend = &line
	}
	return c
}

// Histogram bins the table's ratios into equal-width intervals.
func Histogram(t *schema.SeriesTable, bins int) schema.HistogramChart {
	return schema.HistogramChart{
		Title: fmt.Sprintf("%s ratio distribution", label(t)),
		Bins:  algo.Histogram(t.Ratios(), bins),
	}
}

// WeekendViolin splits the table into weekdays then weekends.
func WeekendViolin(t *schema.SeriesTable) schema.ViolinChart {
	var weekday, weekend []float64
	for _, r := range rows(t) {
		if r.IsWeekend {
			weekend = append(weekend, r.Ratio)
		} else {
			weekday = append(weekday, r.Ratio)
		}
	}
	return schema.ViolinChart{
		Title: fmt.Sprintf("%s weekday vs weekend", label(t)),
		Groups: []schema.ViolinGroup{
			{IsWeekend: false, Label: "Weekday", Stats: algo.Box(weekday), Points: weekday},
			{IsWeekend: true, Label: "Weekend", Stats: algo.Box(weekend), Points: weekend},
		},
	}
}
