package core

import (
	"strings"

	"github.com/huangsam/trendscope/core/agg"
	"github.com/huangsam/trendscope/core/algo"
	"github.com/huangsam/trendscope/core/chart"
	"github.com/huangsam/trendscope/schema"
)

// FilterByYears returns a new table with exactly the rows whose year is in years.
// Relative order is kept. An empty set yields an empty table.
func FilterByYears(t *schema.SeriesTable, years schema.YearSet) *schema.SeriesTable {
	if t == nil {
		return nil
	}
	rows := make([]schema.Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		if years.Contains(r.Year) {
			rows = append(rows, r)
		}
	}
	return t.WithRows(rows)
}

// pair produces the samples that enter the correlation.
func pair(a, b *schema.SeriesTable, alignment schema.Alignment) (x, y []float64) {
	if a == nil || b == nil {
		return nil, nil
	}
	if alignment == schema.PositionAlign {
		return algo.AlignByPosition(a.Rows, b.Rows)
	}
	return algo.AlignByPeriod(a.Rows, b.Rows)
}

// Correlate returns the Pearson correlation of two series.
// The timestamp alignment joins rows on equal periods; position pairs rows by index.
func Correlate(a, b *schema.SeriesTable, alignment schema.Alignment) schema.OptFloat {
	x, y := pair(a, b, alignment)
	return algo.Pearson(x, y)
}

// Summarize computes the headline metrics of both series.
func Summarize(primary, secondary *schema.SeriesTable, alignment schema.Alignment) schema.Summary {
	if alignment == "" {
		alignment = schema.TimestampAlign
	}
	p, s := primary.Ratios(), secondary.Ratios()
	x, y := pair(primary, secondary, alignment)
	r := algo.Pearson(x, y)

	summary := schema.Summary{
		PrimaryRows:      len(p),
		SecondaryRows:    len(s),
		PrimaryMean:      algo.Mean(p),
		SecondaryMean:    algo.Mean(s),
		PrimaryMax:       algo.Max(p),
		SecondaryMax:     algo.Max(s),
		Correlation:      r,
		CorrelationLabel: schema.CorrelationLabel(r),
		Alignment:        alignment,
		PairedRows:       len(x),
	}
	if primary != nil {
		summary.PrimaryLabel = primary.Label
	}
	if secondary != nil {
		summary.SecondaryLabel = secondary.Label
	}

	for _, t := range []*schema.SeriesTable{primary, secondary} {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			if summary.FirstPeriod == nil || row.Period.Before(*summary.FirstPeriod) {
				first := row.Period
				summary.FirstPeriod = &first
			}
			if summary.LastPeriod == nil || row.Period.After(*summary.LastPeriod) {
				last := row.Period
				summary.LastPeriod = &last
			}
		}
	}
	return summary
}

// Breakdown reduces one series over a calendar bucket.
func Breakdown(t *schema.SeriesTable, kind schema.BucketKind, op schema.ReduceOp) schema.Breakdown {
	b := schema.Breakdown{Kind: kind, Op: op}
	var rows []schema.Row
	if t != nil {
		b.Series, b.Label, rows = t.Key, t.Label, t.Rows
	}
	buckets := agg.GroupReduce(rows, agg.BucketerFor(kind), op)
	if op == schema.SumOp {
		buckets = agg.Share(buckets)
	}
	b.Buckets = buckets
	return b
}

// CombineRows concatenates primary then secondary rows into the flat view.
func CombineRows(primary, secondary *schema.SeriesTable) []schema.FlatRow {
	out := make([]schema.FlatRow, 0, primary.Len()+secondary.Len())
	for _, t := range []*schema.SeriesTable{primary, secondary} {
		if t == nil {
			continue
		}
		for _, r := range t.Rows {
			out = append(out, schema.FlatRow{Row: r, Series: t.Label})
		}
	}
	return out
}

// SearchRows keeps rows where any stringified field contains query, ignoring case.
// An empty query returns rows unchanged.
func SearchRows(rows []schema.FlatRow, query string) []schema.FlatRow {
	if query == "" {
		return rows
	}
	needle := strings.ToLower(query)
	out := make([]schema.FlatRow, 0, len(rows))
	for _, r := range rows {
		for _, field := range r.Strings() {
			if strings.Contains(strings.ToLower(field), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// DashboardParams selects what one dashboard shows.
type DashboardParams struct {
	Years     schema.YearSet
	Alignment schema.Alignment
	Query     string
	Bins      int
}

// dashboardBreakdowns are the calendar tables shown on every dashboard.
var dashboardBreakdowns = []struct {
	kind schema.BucketKind
	op   schema.ReduceOp
}{
	{schema.WeekdayBucket, schema.MeanOp},
	{schema.MonthBucket, schema.MeanOp},
	{schema.QuarterBucket, schema.SumOp},
}

// BuildDashboard filters ds to the selected years and computes every view of it.
func BuildDashboard(ds *schema.Dataset, params DashboardParams) schema.Dashboard {
	primary := FilterByYears(ds.Primary, params.Years)
	secondary := FilterByYears(ds.Secondary, params.Years)
	years := params.Years.Sorted()

	summary := Summarize(primary, secondary, params.Alignment)
	summary.Years = years

	breakdowns := make([]schema.Breakdown, 0, len(dashboardBreakdowns))
	for _, b := range dashboardBreakdowns {
		bd := Breakdown(primary, b.kind, b.op)
		bd.Years = years
		breakdowns = append(breakdowns, bd)
	}

	return schema.Dashboard{
		Summary:    summary,
		Charts:     chart.Build(primary, secondary, chart.Options{Bins: params.Bins}),
		Breakdowns: breakdowns,
		Query:      params.Query,
		Rows:       SearchRows(CombineRows(primary, secondary), params.Query),
	}
}
