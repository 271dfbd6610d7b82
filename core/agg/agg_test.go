package agg

import (
	"testing"
	"time"

	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(y int, m time.Month, d int, ratio float64) schema.Row {
	return schema.NewRow(time.Date(y, m, d, 0, 0, 0, 0, time.UTC), ratio)
}

func TestQuarter(t *testing.T) {
	expected := map[int]int{1: 1, 2: 1, 3: 1, 4: 2, 5: 2, 6: 2, 7: 3, 8: 3, 9: 3, 10: 4, 11: 4, 12: 4}
	for month, q := range expected {
		assert.Equal(t, q, Quarter(month), "month %d", month)
		assert.Equal(t, q-1, QuarterOfYear{}.Index(row(2025, time.Month(month), 15, 0)), "bucket month %d", month)
	}
}

func TestGroupReduceWeekday(t *testing.T) {
	// 2024-01-01 is a Monday, 2024-01-06 a Saturday.
	rows := []schema.Row{
		row(2024, 1, 1, 10),
		row(2024, 1, 8, 30),
		row(2024, 1, 6, 50),
	}

	got := GroupReduce(rows, Weekday{}, schema.MeanOp)
	require.Len(t, got, 7)
	labels := make([]string, len(got))
	for i, b := range got {
		labels[i] = b.Label
		assert.Equal(t, i+1, b.Bucket)
	}
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}, labels)

	assert.Equal(t, schema.Some(20), got[0].Value)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, schema.Some(50), got[5].Value)
	for _, i := range []int{1, 2, 3, 4, 6} {
		assert.False(t, got[i].Value.Valid(), got[i].Label)
		assert.Zero(t, got[i].Count)
	}
}

func TestGroupReduceEmpty(t *testing.T) {
	for _, op := range []schema.ReduceOp{schema.MeanOp, schema.SumOp} {
		got := GroupReduce(nil, Weekday{}, op)
		require.Len(t, got, 7)
		for _, b := range got {
			assert.False(t, b.Value.Valid())
			assert.Zero(t, b.Count)
		}
	}
}

func TestGroupReduceMonthAndQuarter(t *testing.T) {
	rows := []schema.Row{
		row(2024, 2, 1, 1),
		row(2024, 3, 1, 2),
		row(2025, 2, 1, 3),
		row(2024, 11, 1, 4),
	}

	months := GroupReduce(rows, Month{}, schema.SumOp)
	require.Len(t, months, 12)
	assert.Equal(t, "Jan", months[0].Label)
	assert.Equal(t, "Dec", months[11].Label)
	assert.Equal(t, schema.Some(4), months[1].Value)
	assert.Equal(t, 2, months[1].Count)

	quarters := GroupReduce(rows, QuarterOfYear{}, schema.SumOp)
	require.Len(t, quarters, 4)
	assert.Equal(t, "Q1", quarters[0].Label)
	assert.Equal(t, schema.Some(6), quarters[0].Value)
	assert.False(t, quarters[1].Value.Valid())
	assert.Equal(t, schema.Some(4), quarters[3].Value)
}

func TestShare(t *testing.T) {
	buckets := []schema.BucketValue{
		{Label: "Q1", Value: schema.Some(30)},
		{Label: "Q2", Value: schema.NoData()},
		{Label: "Q3", Value: schema.Some(10)},
	}
	got := Share(buckets)
	assert.Equal(t, schema.Some(0.75), got[0].Share)
	assert.False(t, got[1].Share.Valid())
	assert.Equal(t, schema.Some(0.25), got[2].Share)

	zero := Share([]schema.BucketValue{{Value: schema.Some(0)}, {Value: schema.Some(0)}})
	for _, b := range zero {
		assert.False(t, b.Share.Valid())
	}
}

func TestBucketerFor(t *testing.T) {
	for _, kind := range schema.AllBucketKinds {
		assert.Equal(t, kind, BucketerFor(kind).Kind())
	}
	assert.Equal(t, schema.WeekdayBucket, BucketerFor("").Kind())
}
