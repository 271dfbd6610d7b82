package algo

import (
	"sort"

	"github.com/huangsam/trendscope/schema"
)

// RankBuckets returns the buckets that carry a value, highest first,
// trimmed to limit. Buckets with equal values keep canonical order.
// A limit below one returns every present bucket.
func RankBuckets(buckets []schema.BucketValue, limit int) []schema.BucketValue {
	present := make([]schema.BucketValue, 0, len(buckets))
	for _, b := range buckets {
		if b.Value.Valid() {
			present = append(present, b)
		}
	}
	sort.SliceStable(present, func(i, j int) bool {
		return present[i].Value.Or(0) > present[j].Value.Or(0)
	})
	if limit > 0 && len(present) > limit {
		return present[:limit]
	}
	return present
}
