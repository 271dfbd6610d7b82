package algo

import "github.com/huangsam/trendscope/schema"

// AlignByPeriod pairs rows with equal periods, like an inner join.
// Each left row pairs with every right row of the same period; output follows left order.
func AlignByPeriod(left, right []schema.Row) (x, y []float64) {
	index := make(map[int64][]float64, len(right))
	for _, r := range right {
		k := r.Period.UnixNano()
		index[k] = append(index[k], r.Ratio)
	}
	for _, l := range left {
		for _, v := range index[l.Period.UnixNano()] {
			x = append(x, l.Ratio)
			y = append(y, v)
		}
	}
	return x, y
}

// AlignByPosition pairs rows by index. Tables of different length do not pair.
func AlignByPosition(left, right []schema.Row) (x, y []float64) {
	if len(left) != len(right) {
		return nil, nil
	}
	x = make([]float64, len(left))
	y = make([]float64, len(right))
	for i := range left {
		x[i] = left[i].Ratio
		y[i] = right[i].Ratio
	}
	return x, y
}
