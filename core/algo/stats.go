// Package algo has the numeric kernels behind metrics and charts.
// Every function tolerates empty input and reports absence through schema.OptFloat.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/trendscope/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, or no data for empty input.
func Mean(values []float64) schema.OptFloat {
	if len(values) == 0 {
		return schema.NoData()
	}
	return schema.Some(stat.Mean(values, nil))
}

// Max returns the largest value, or no data for empty input.
func Max(values []float64) schema.OptFloat {
	if len(values) == 0 {
		return schema.NoData()
	}
	return schema.Some(floats.Max(values))
}

// Min returns the smallest value, or no data for empty input.
func Min(values []float64) schema.OptFloat {
	if len(values) == 0 {
		return schema.NoData()
	}
	return schema.Some(floats.Min(values))
}

// Sum returns the total. The sum of nothing is zero.
func Sum(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return floats.Sum(values)
}

// constant reports whether every value is the same.
func constant(values []float64) bool {
	return floats.Min(values) == floats.Max(values)
}

// Pearson returns the Pearson correlation of paired samples.
// It is absent for mismatched lengths, fewer than two pairs, or zero variance on either side.
func Pearson(x, y []float64) schema.OptFloat {
	if len(x) != len(y) || len(x) < 2 {
		return schema.NoData()
	}
	if constant(x) || constant(y) {
		return schema.NoData()
	}
	return schema.Some(stat.Correlation(x, y, nil))
}

// Fit returns the ordinary least squares line through the pairs.
// The line spans the observed x range. ok is false when x has fewer than two distinct values.
func Fit(x, y []float64) (line schema.Trendline, ok bool) {
	if len(x) != len(y) || len(x) < 2 || constant(x) {
		return schema.Trendline{}, false
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	if constant(y) {
		r2 = 1
	}
	lo, hi := floats.Min(x), floats.Max(x)
	return schema.Trendline{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  r2,
		Start:     schema.Point{X: lo, Y: alpha + beta*lo},
		End:       schema.Point{X: hi, Y: alpha + beta*hi},
	}, true
}

// Box returns the five-number summary of values.
func Box(values []float64) schema.BoxStats {
	if len(values) == 0 {
		return schema.BoxStats{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	q := func(p float64) schema.OptFloat {
		return schema.Some(quantile(sorted, p))
	}
	return schema.BoxStats{
		Min:    schema.Some(sorted[0]),
		Q1:     q(0.25),
		Median: q(0.5),
		Q3:     q(0.75),
		Max:    schema.Some(sorted[len(sorted)-1]),
		N:      len(sorted),
	}
}

// quantile interpolates linearly between the closest ranks of sorted,
// matching the default of numpy and pandas.
func quantile(sorted []float64, p float64) float64 {
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// Histogram splits [min, max] into bins equal-width intervals and counts values per interval.
// Constant input yields a single zero-width bin.
func Histogram(values []float64, bins int) []schema.HistogramBin {
	if len(values) == 0 || bins < 1 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []schema.HistogramBin{{Lower: lo, Upper: hi, Count: len(sorted)}}
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := slices.Clone(edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]schema.HistogramBin, bins)
	for i := range out {
		out[i] = schema.HistogramBin{Lower: edges[i], Upper: edges[i+1], Count: int(counts[i])}
	}
	return out
}
