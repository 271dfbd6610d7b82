// Package agg has calendar bucketing and reduction for trend rows.
package agg

import (
	"fmt"
	"time"

	"github.com/huangsam/trendscope/core/algo"
	"github.com/huangsam/trendscope/schema"
)

// Bucketer maps rows onto a fixed, ordered set of calendar buckets.
type Bucketer interface {
	Kind() schema.BucketKind
	// Size is the number of canonical buckets.
	Size() int
	// Label names bucket i, where 0 <= i < Size().
	Label(i int) string
	// Index places a row into its bucket.
	Index(row schema.Row) int
}

// weekdayOrder starts the week on Monday.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Weekday buckets rows Monday through Sunday.
type Weekday struct{}

func (Weekday) Kind() schema.BucketKind { return schema.WeekdayBucket }
func (Weekday) Size() int               { return len(weekdayOrder) }
func (Weekday) Label(i int) string      { return weekdayOrder[i].String() }
func (Weekday) Index(row schema.Row) int {
	return (int(row.Period.Weekday()) + 6) % 7
}

// Month buckets rows January through December.
type Month struct{}

func (Month) Kind() schema.BucketKind  { return schema.MonthBucket }
func (Month) Size() int                { return 12 }
func (Month) Label(i int) string       { return time.Month(i + 1).String()[:3] }
func (Month) Index(row schema.Row) int { return row.Month - 1 }

// QuarterOfYear buckets rows Q1 through Q4.
type QuarterOfYear struct{}

func (QuarterOfYear) Kind() schema.BucketKind  { return schema.QuarterBucket }
func (QuarterOfYear) Size() int                { return 4 }
func (QuarterOfYear) Label(i int) string       { return fmt.Sprintf("Q%d", i+1) }
func (QuarterOfYear) Index(row schema.Row) int { return Quarter(row.Month) - 1 }

// BucketerFor returns the bucketer for kind, defaulting to Weekday.
func BucketerFor(kind schema.BucketKind) Bucketer {
	switch kind {
	case schema.MonthBucket:
		return Month{}
	case schema.QuarterBucket:
		return QuarterOfYear{}
	default:
		return Weekday{}
	}
}

// Quarter maps a month (1-12) to its quarter (1-4).
func Quarter(month int) int {
	return (month-1)/3 + 1
}

// GroupReduce reduces rows per bucket. The result always holds every
// canonical bucket in order; empty buckets carry no data and a zero count.
func GroupReduce(rows []schema.Row, b Bucketer, op schema.ReduceOp) []schema.BucketValue {
	groups := make([][]float64, b.Size())
	for _, r := range rows {
		i := b.Index(r)
		if i < 0 || i >= len(groups) {
			continue
		}
		groups[i] = append(groups[i], r.Ratio)
	}

	out := make([]schema.BucketValue, len(groups))
	for i, values := range groups {
		out[i] = schema.BucketValue{
			Bucket: i + 1,
			Label:  b.Label(i),
			Value:  reduce(values, op),
			Count:  len(values),
		}
	}
	return out
}

func reduce(values []float64, op schema.ReduceOp) schema.OptFloat {
	if len(values) == 0 {
		return schema.NoData()
	}
	if op == schema.SumOp {
		return schema.Some(algo.Sum(values))
	}
	return algo.Mean(values)
}

// Share fills in each bucket's fraction of the total across present buckets.
// Shares are absent for empty buckets, and for all buckets when the total is zero.
func Share(buckets []schema.BucketValue) []schema.BucketValue {
	var total float64
	for _, b := range buckets {
		total += b.Value.Or(0)
	}
	out := make([]schema.BucketValue, len(buckets))
	for i, b := range buckets {
		b.Share = schema.NoData()
		if v, ok := b.Value.Get(); ok && total != 0 {
			b.Share = schema.Some(v / total)
		}
		out[i] = b
	}
	return out
}
