// Package chartpng rasterizes chart descriptors into PNG images with go-chart.
// Descriptors carry data only; every color, size and dash lives here.
package chartpng

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/trendscope/schema"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrNoData is returned when a chart has too little data to draw.
	ErrNoData = errors.New("not enough data to draw chart")

	// ErrUnknownChart is returned for charts without a PNG rendering.
	ErrUnknownChart = errors.New("chart has no PNG rendering")
)

// Supported lists the charts that render to PNG.
// Box and violin charts are shown as quartile tables instead.
var Supported = []schema.ChartName{
	schema.TimeseriesChartName,
	schema.WeekdayBarChartName,
	schema.QuarterShareChartName,
	schema.ScatterChartName,
	schema.HistogramChartName,
}

var (
	primaryColor   = drawing.ColorFromHex("1e3d59")
	secondaryColor = drawing.ColorFromHex("ff6e40")
	trendColor     = drawing.ColorFromHex("d62728")
	slicePalette   = []drawing.Color{
		drawing.ColorFromHex("1e3d59"),
		drawing.ColorFromHex("ff6e40"),
		drawing.ColorFromHex("ffc13b"),
		drawing.ColorFromHex("2a9d8f"),
	}
)

// Options sizes the rendered images.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches the dashboard layout.
var DefaultOptions = Options{Width: 800, Height: 400}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultOptions.Width
	}
	if h <= 0 {
		h = DefaultOptions.Height
	}
	return w, h
}

// IsSupported reports whether name renders to PNG.
func IsSupported(name schema.ChartName) bool {
	for _, n := range Supported {
		if n == name {
			return true
		}
	}
	return false
}

// Render draws the named chart of set as PNG onto w.
func Render(w io.Writer, name schema.ChartName, set schema.ChartSet, opts Options) error {
	switch name {
	case schema.TimeseriesChartName:
		return renderTimeseries(w, set.Timeseries, opts)
	case schema.WeekdayBarChartName:
		return renderBar(w, set.WeekdayBar, opts)
	case schema.QuarterShareChartName:
		return renderPie(w, set.QuarterShare, opts)
	case schema.ScatterChartName:
		return renderScatter(w, set.Scatter, opts)
	case schema.HistogramChartName:
		return renderHistogram(w, set.Histogram, opts)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// WriteFiles renders every supported chart into dir as <name>.png.
// Charts without enough data are skipped. It returns the written paths.
func WriteFiles(dir string, set schema.ChartSet, opts Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	var written []string
	for _, name := range Supported {
		path := filepath.Join(dir, string(name)+".png")
		err := writeFile(path, name, set, opts)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, name schema.ChartName, set schema.ChartSet, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	err = Render(f, name, set, opts)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

func renderTimeseries(w io.Writer, c schema.TimeseriesChart, opts Options) error {
	var (
		series   []chart.Series
		lo, hi   time.Time
		yMax     float64
		distinct = map[int64]struct{}{}
	)
	for _, line := range c.Lines {
		if len(line.Points) == 0 {
			continue
		}
		xs := make([]time.Time, len(line.Points))
		ys := make([]float64, len(line.Points))
		for i, p := range line.Points {
			xs[i], ys[i] = p.Period, p.Value
			distinct[p.Period.UnixNano()] = struct{}{}
			if lo.IsZero() || p.Period.Before(lo) {
				lo = p.Period
			}
			if p.Period.After(hi) {
				hi = p.Period
			}
			yMax = math.Max(yMax, p.Value)
		}
		series = append(series, chart.TimeSeries{
			Name:    line.Name,
			Style:   lineStyle(line.Key),
			XValues: xs,
			YValues: ys,
		})
	}
	if len(distinct) < 2 {
		return ErrNoData
	}

	width, height := opts.size()
	graph := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Period",
			ValueFormatter: chart.TimeDateValueFormatter,
			Range:          &chart.ContinuousRange{Min: chart.TimeToFloat64(lo), Max: chart.TimeToFloat64(hi)},
		},
		YAxis: chart.YAxis{
			Name:  "Ratio",
			Range: &chart.ContinuousRange{Min: 0, Max: upper(yMax)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// lineStyle gives the primary series a solid line and the secondary a dashed one.
func lineStyle(key schema.SeriesKey) chart.Style {
	if key == schema.SecondarySeries {
		return chart.Style{
			StrokeColor:     secondaryColor,
			StrokeWidth:     2,
			StrokeDashArray: []float64{6, 4},
		}
	}
	return chart.Style{
		StrokeColor: primaryColor,
		StrokeWidth: 2,
	}
}

func renderBar(w io.Writer, c schema.BarChart, opts Options) error {
	bars := make([]chart.Value, len(c.Buckets))
	present := false
	yMax := 0.0
	for i, b := range c.Buckets {
		v, ok := b.Value.Get()
		present = present || ok
		yMax = math.Max(yMax, v)
		bars[i] = chart.Value{
			Label: b.Label,
			Value: v,
			Style: chart.Style{FillColor: primaryColor, StrokeColor: primaryColor},
		}
	}
	if !present {
		return ErrNoData
	}
	return renderBars(w, c.Title, bars, yMax, opts)
}

func renderHistogram(w io.Writer, c schema.HistogramChart, opts Options) error {
	if len(c.Bins) == 0 {
		return ErrNoData
	}
	bars := make([]chart.Value, len(c.Bins))
	yMax := 0.0
	for i, b := range c.Bins {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%.0f", b.Lower),
			Value: float64(b.Count),
			Style: chart.Style{FillColor: primaryColor, StrokeColor: primaryColor},
		}
		yMax = math.Max(yMax, float64(b.Count))
	}
	return renderBars(w, c.Title, bars, yMax, opts)
}

func renderBars(w io.Writer, title string, bars []chart.Value, yMax float64, opts Options) error {
	width, height := opts.size()
	const spacing = 4
	barWidth := max(2, (width-120)/max(1, len(bars))-spacing)
	graph := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth:   barWidth,
		BarSpacing: spacing,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upper(yMax)},
		},
		Bars: bars,
	}
	return graph.Render(chart.PNG, w)
}

func renderPie(w io.Writer, c schema.PieChart, opts Options) error {
	var values []chart.Value
	for i, s := range c.Slices {
		v, ok := s.Value.Get()
		if !ok || v <= 0 {
			continue
		}
		color := slicePalette[i%len(slicePalette)]
		label := s.Label
		if share, ok := s.Share.Get(); ok {
			label = fmt.Sprintf("%s %.1f%%", s.Label, share*100)
		}
		values = append(values, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{FillColor: color, StrokeColor: drawing.ColorWhite},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}
	width, height := opts.size()
	graph := chart.PieChart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Values: values,
	}
	return graph.Render(chart.PNG, w)
}

func renderScatter(w io.Writer, c schema.ScatterChart, opts Options) error {
	if len(c.Points) < 2 {
		return ErrNoData
	}
	xs := make([]float64, len(c.Points))
	ys := make([]float64, len(c.Points))
	for i, p := range c.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	xLo, xHi := bounds(xs)
	_, yHi := bounds(ys)
	if xLo == xHi {
		return ErrNoData
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name: "Daily ratio",
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    3,
				DotColor:    primaryColor.WithAlpha(160),
			},
			XValues: xs,
			YValues: ys,
		},
	}
	if t := c.Trend; t != nil {
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("OLS (r² %.2f)", t.RSquared),
			Style:   chart.Style{StrokeColor: trendColor, StrokeWidth: 2},
			XValues: []float64{t.Start.X, t.End.X},
			YValues: []float64{t.Start.Y, t.End.Y},
		})
	}

	width, height := opts.size()
	graph := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  c.XLabel,
			Range: &chart.ContinuousRange{Min: xLo, Max: xHi},
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: math.Min(0, lowestTrendY(c.Trend)), Max: upper(yHi)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

func lowestTrendY(t *schema.Trendline) float64 {
	if t == nil {
		return 0
	}
	return math.Min(t.Start.Y, t.End.Y)
}

// upper pads the top of an axis so the largest value is not drawn on the border.
func upper(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.05
}
