package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/trendscope/core/algo"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// chartCSVHeader is the long format shared by every chart: one point per record.
var chartCSVHeader = []string{"chart", "series", "x", "y"}

// PrintCharts outputs chart descriptors, dispatching based on the output format configured.
// Parquet is not offered since the descriptors have no common row shape.
func PrintCharts(set schema.ChartSet, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, set)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, chartCSVHeader, func(cw *csv.Writer) error {
				for _, rec := range chartRecords(set) {
					if err := cw.Write(rec); err != nil {
						return fmt.Errorf("failed to write CSV record: %w", err)
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.XLSXOut:
		return writeBinaryFile(cfg.OutputFile, func(w io.Writer) error {
			return writeXLSX(w, func(f *excelize.File) error {
				records := chartRecords(set)
				cells := make([][]any, len(records))
				for i, rec := range records {
					cells[i] = []any{rec[0], rec[1], rec[2], rec[3]}
				}
				return fillSheet(f, "charts", chartCSVHeader, cells)
			})
		}, "Wrote XLSX")
	case schema.ParquetOut:
		return fmt.Errorf("charts do not support %s output", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeChartsTable(w, set, cfg)
		}, "Wrote table")
	}
}

// chartRecords flattens every plottable point of the set.
func chartRecords(set schema.ChartSet) [][]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	var out [][]string
	for _, line := range set.Timeseries.Lines {
		for _, p := range line.Points {
			out = append(out, []string{string(schema.TimeseriesChartName), line.Name, schema.FormatPeriod(p.Period), f(p.Value)})
		}
	}
	for _, b := range set.WeekdayBar.Buckets {
		out = append(out, []string{string(schema.WeekdayBarChartName), "", b.Label, csvValue(b.Value)})
	}
	for _, s := range set.QuarterShare.Slices {
		out = append(out, []string{string(schema.QuarterShareChartName), "", s.Label, csvValue(s.Share)})
	}
	for _, p := range set.Scatter.Points {
		out = append(out, []string{string(schema.ScatterChartName), "", f(p.X), f(p.Y)})
	}
	for _, b := range set.Histogram.Bins {
		out = append(out, []string{string(schema.HistogramChartName), "", f(b.Lower), strconv.Itoa(b.Count)})
	}
	return out
}

// writeChartsTable prints one line per chart with its point count and key figures.
func writeChartsTable(w io.Writer, set schema.ChartSet, cfg *contract.Config) error {
	_, fmtOpt := createFormatters(cfg.Precision)

	points := 0
	for _, line := range set.Timeseries.Lines {
		points += len(line.Points)
	}
	trend := schema.NoDataText
	if t := set.Scatter.Trend; t != nil {
		trend = fmt.Sprintf("y = %.3fx + %.3f (r² %.3f)", t.Slope, t.Intercept, t.RSquared)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Chart", "Title", "Items", "Detail"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Header.Formatting.AutoFormat = tw.Off
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data := [][]string{
		{string(schema.TimeseriesChartName), set.Timeseries.Title, strconv.Itoa(points), fmt.Sprintf("%d lines", len(set.Timeseries.Lines))},
		{string(schema.MonthlyBoxChartName), set.MonthlyBox.Title, strconv.Itoa(len(set.MonthlyBox.Groups)), "groups"},
		{string(schema.WeekdayBarChartName), set.WeekdayBar.Title, strconv.Itoa(len(set.WeekdayBar.Buckets)), peakLabel(set.WeekdayBar.Buckets, fmtOpt)},
		{string(schema.QuarterShareChartName), set.QuarterShare.Title, strconv.Itoa(len(set.QuarterShare.Slices)), peakLabel(set.QuarterShare.Slices, fmtOpt)},
		{string(schema.ScatterChartName), set.Scatter.Title, strconv.Itoa(len(set.Scatter.Points)), trend},
		{string(schema.HistogramChartName), set.Histogram.Title, strconv.Itoa(len(set.Histogram.Bins)), "bins"},
		{string(schema.WeekendViolinChartName), set.WeekendViolin.Title, strconv.Itoa(len(set.WeekendViolin.Groups)), violinMedians(set.WeekendViolin, fmtOpt)},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func peakLabel(buckets []schema.BucketValue, fmtOpt func(schema.OptFloat) string) string {
	top := algo.RankBuckets(buckets, 1)
	if len(top) == 0 {
		return "peak " + schema.NoDataText
	}
	return fmt.Sprintf("peak %s %s", top[0].Label, fmtOpt(top[0].Value))
}

func violinMedians(v schema.ViolinChart, fmtOpt func(schema.OptFloat) string) string {
	s := ""
	for i, g := range v.Groups {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%s median %s", g.Label, fmtOpt(g.Stats.Median))
	}
	return s
}
