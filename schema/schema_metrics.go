package schema

import (
	"math"
	"time"
)

// Correlation strength labels.
const (
	StrongCorrelation   = "Strong"
	ModerateCorrelation = "Moderate"
	WeakCorrelation     = "Weak"
	NoCorrelation       = "None"
)

// Summary holds the headline metrics for a year selection.
type Summary struct {
	Years            []int      `json:"years"`
	PrimaryLabel     string     `json:"primary_label"`
	SecondaryLabel   string     `json:"secondary_label"`
	PrimaryRows      int        `json:"primary_rows"`
	SecondaryRows    int        `json:"secondary_rows"`
	PrimaryMean      OptFloat   `json:"primary_mean"`
	SecondaryMean    OptFloat   `json:"secondary_mean"`
	PrimaryMax       OptFloat   `json:"primary_max"`
	SecondaryMax     OptFloat   `json:"secondary_max"`
	Correlation      OptFloat   `json:"correlation"`
	CorrelationLabel string     `json:"correlation_label"`
	Alignment        Alignment  `json:"alignment"`
	PairedRows       int        `json:"paired_rows"` // Pairs that entered the correlation
	FirstPeriod      *time.Time `json:"first_period,omitempty"`
	LastPeriod       *time.Time `json:"last_period,omitempty"`
}

// BucketValue is one reduced calendar bucket.
// Count is zero and Value absent when no rows fell into the bucket.
type BucketValue struct {
	Bucket int      `json:"bucket"` // 1-based canonical position
	Label  string   `json:"label"`
	Value  OptFloat `json:"value"`
	Count  int      `json:"count"`
	Share  OptFloat `json:"share"` // Fraction of the total across buckets, for pie data
}

// Breakdown is a full bucketed view of one series.
type Breakdown struct {
	Kind    BucketKind    `json:"kind"`
	Op      ReduceOp      `json:"op"`
	Series  SeriesKey     `json:"series"`
	Label   string        `json:"label"`
	Years   []int         `json:"years"`
	Buckets []BucketValue `json:"buckets"`
}

// CorrelationLabel classifies a coefficient by absolute strength.
func CorrelationLabel(r OptFloat) string {
	v, ok := r.Get()
	if !ok {
		return NoDataText
	}
	switch a := math.Abs(v); {
	case a >= 0.7:
		return StrongCorrelation
	case a >= 0.4:
		return ModerateCorrelation
	case a >= 0.1:
		return WeakCorrelation
	default:
		return NoCorrelation
	}
}
