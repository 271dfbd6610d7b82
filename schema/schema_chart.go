package schema

import "time"

// Chart descriptors are pure data. Styling lives with the renderers.

// TimePoint is one (period, value) sample.
type TimePoint struct {
	Period time.Time `json:"period"`
	Value  float64   `json:"value"`
}

// Point is one (x, y) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LineSeries is a named line over time.
type LineSeries struct {
	Key    SeriesKey   `json:"key"`
	Name   string      `json:"name"`
	Points []TimePoint `json:"points"`
}

// TimeseriesChart overlays every series over time.
type TimeseriesChart struct {
	Title string       `json:"title"`
	Lines []LineSeries `json:"lines"`
}

// BoxStats is a five-number summary.
type BoxStats struct {
	Min    OptFloat `json:"min"`
	Q1     OptFloat `json:"q1"`
	Median OptFloat `json:"median"`
	Q3     OptFloat `json:"q3"`
	Max    OptFloat `json:"max"`
	N      int      `json:"n"`
}

// BoxGroup is one box of the monthly box chart.
type BoxGroup struct {
	Month  int       `json:"month"`
	Year   int       `json:"year"`
	Stats  BoxStats  `json:"stats"`
	Points []float64 `json:"points"`
}

// MonthlyBoxChart shows the distribution per (month, year).
type MonthlyBoxChart struct {
	Title  string     `json:"title"`
	Groups []BoxGroup `json:"groups"`
}

// BarChart shows one value per bucket.
type BarChart struct {
	Title   string        `json:"title"`
	Buckets []BucketValue `json:"buckets"`
}

// PieChart shows each bucket's share of the total.
type PieChart struct {
	Title  string        `json:"title"`
	Slices []BucketValue `json:"slices"`
}

// Trendline is an ordinary least squares fit y = Intercept + Slope*x.
type Trendline struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
	Start     Point   `json:"start"`
	End       Point   `json:"end"`
}

// HistogramBin is one equal-width bin, closed on the left.
// The last bin is also closed on the right.
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ScatterChart plots the secondary series against the primary series by period.
type ScatterChart struct {
	Title     string         `json:"title"`
	XLabel    string         `json:"x_label"`
	YLabel    string         `json:"y_label"`
	Points    []Point        `json:"points"`
	Trend     *Trendline     `json:"trend,omitempty"` // nil when no fit is possible
	MarginalX []HistogramBin `json:"marginal_x"`
	MarginalY BoxStats       `json:"marginal_y"`
}

// HistogramChart shows the distribution of one series.
type HistogramChart struct {
	Title string         `json:"title"`
	Bins  []HistogramBin `json:"bins"`
}

// ViolinGroup is one side of the weekend split.
type ViolinGroup struct {
	IsWeekend bool      `json:"is_weekend"`
	Label     string    `json:"label"`
	Stats     BoxStats  `json:"stats"`
	Points    []float64 `json:"points"`
}

// ViolinChart splits the distribution by weekday and weekend.
type ViolinChart struct {
	Title  string        `json:"title"`
	Groups []ViolinGroup `json:"groups"`
}

// ChartSet holds every chart of the dashboard.
type ChartSet struct {
	Timeseries    TimeseriesChart `json:"timeseries"`
	MonthlyBox    MonthlyBoxChart `json:"monthly_box"`
	WeekdayBar    BarChart        `json:"weekday_bar"`
	QuarterShare  PieChart        `json:"quarter_share"`
	Scatter       ScatterChart    `json:"scatter"`
	Histogram     HistogramChart  `json:"histogram"`
	WeekendViolin ViolinChart     `json:"weekend_violin"`
}

// Dashboard is everything shown for one year selection and search query.
type Dashboard struct {
	Summary    Summary     `json:"summary"`
	Charts     ChartSet    `json:"charts"`
	Breakdowns []Breakdown `json:"breakdowns"`
	Query      string      `json:"query"`
	Rows       []FlatRow   `json:"rows"`
}
