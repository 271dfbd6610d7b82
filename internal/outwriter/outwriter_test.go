package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/dataset"
	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testRows() []schema.FlatRow {
	return []schema.FlatRow{
		{Row: schema.NewRow(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 12.5), Series: "Brand"},
		{Row: schema.NewRow(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 40), Series: "Brand"},
		{Row: schema.NewRow(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), 3), Series: "Gift card"},
	}
}

func testSummary() schema.Summary {
	return schema.Summary{
		Years:            []int{2024},
		PrimaryLabel:     "Brand",
		SecondaryLabel:   "Gift card",
		PrimaryRows:      2,
		SecondaryRows:    1,
		PrimaryMean:      schema.Some(26.25),
		SecondaryMean:    schema.Some(3),
		PrimaryMax:       schema.Some(40),
		SecondaryMax:     schema.Some(3),
		Correlation:      schema.NoData(),
		CorrelationLabel: schema.NoDataText,
		Alignment:        schema.TimestampAlign,
	}
}

func testConfig(t *testing.T, mode schema.OutputMode, name string) *contract.Config {
	t.Helper()
	cfg := &contract.Config{Output: mode, Precision: 1, Width: 120}
	if name != "" {
		cfg.OutputFile = filepath.Join(t.TempDir(), name)
	}
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestWriteExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, testRows()))

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, utf8BOM), "export must start with a UTF-8 BOM")

	lines := strings.Split(strings.TrimSpace(string(raw[len(utf8BOM):])), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(schema.FlatColumns, ","), lines[0])
	assert.Equal(t, "2024-02-29,12.5,2,2024,Thursday,False,Brand", lines[1])
	assert.Equal(t, "2024-03-02,40.0,3,2024,Saturday,True,Brand", lines[2])

	// Reloading reproduces the row count
	rows, err := dataset.Parse(bytes.NewReader(raw), "export.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, 12.5, rows[0].Ratio)
}

func TestWriteExportCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteExportCSV(&buf, nil))
	assert.Equal(t, string(utf8BOM)+strings.Join(schema.FlatColumns, ",")+"\n", buf.String())
}

func TestPrintSummary(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "summary.txt")
		require.NoError(t, PrintSummary(testSummary(), cfg, time.Second))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Brand")
		assert.Contains(t, out, "Gift card")
		assert.Contains(t, out, "Metric")
		assert.NotContains(t, out, "GIFT CARD")
		assert.Contains(t, out, "26.2")
		assert.Contains(t, out, "Correlation: no data")
		assert.Contains(t, out, "Years: 2024")
	})

	t.Run("json", func(t *testing.T) {
		cfg := testConfig(t, schema.JSONOut, "summary.json")
		require.NoError(t, PrintSummary(testSummary(), cfg, 0))
		var got map[string]any
		require.NoError(t, json.Unmarshal([]byte(readFile(t, cfg.OutputFile)), &got))
		assert.Equal(t, 26.25, got["primary_mean"])
		assert.Nil(t, got["correlation"])
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "summary.csv")
		require.NoError(t, PrintSummary(testSummary(), cfg, 0))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "metric,primary,secondary\n")
		assert.Contains(t, out, "mean,26.25,3\n")
		assert.Contains(t, out, "correlation,,no data\n")
	})

	t.Run("parquet needs a file", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "")
		assert.ErrorIs(t, PrintSummary(testSummary(), cfg, 0), errOutputFileRequired)
	})

	t.Run("parquet", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "summary.parquet")
		require.NoError(t, PrintSummary(testSummary(), cfg, 0))
		assert.True(t, strings.HasPrefix(readFile(t, cfg.OutputFile), "PAR1"))
	})
}

func TestPrintBreakdowns(t *testing.T) {
	breakdowns := []schema.Breakdown{
		{
			Kind: schema.QuarterBucket, Op: schema.SumOp, Series: schema.PrimarySeries, Label: "Brand",
			Buckets: []schema.BucketValue{
				{Bucket: 1, Label: "Q1", Value: schema.Some(30), Count: 2, Share: schema.Some(0.75)},
				{Bucket: 2, Label: "Q2", Value: schema.Some(10), Count: 1, Share: schema.Some(0.25)},
				{Bucket: 3, Label: "Q3", Value: schema.NoData()},
				{Bucket: 4, Label: "Q4", Value: schema.NoData()},
			},
		},
		{
			Kind: schema.WeekdayBucket, Op: schema.MeanOp, Series: schema.SecondarySeries, Label: "Gift card",
			Buckets: []schema.BucketValue{{Bucket: 1, Label: "Monday", Value: schema.NoData()}},
		},
	}

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "breakdown.txt")
		require.NoError(t, PrintBreakdowns(breakdowns, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Brand by quarter (sum)")
		assert.Contains(t, out, "75.0%")
		assert.Contains(t, out, "Bucket")
		assert.NotContains(t, out, "BUCKET")
		assert.Contains(t, out, "Peak: Q1 (30.0)")
		assert.Contains(t, out, "Peak: no data")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "breakdown.csv")
		require.NoError(t, PrintBreakdowns(breakdowns, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "quarter,sum,primary,1,Q1,30,2,0.75\n")
		assert.Contains(t, out, "quarter,sum,primary,3,Q3,,0,\n")
	})

	t.Run("xlsx", func(t *testing.T) {
		cfg := testConfig(t, schema.XLSXOut, "breakdown.xlsx")
		require.NoError(t, PrintBreakdowns(breakdowns, cfg))

		f, err := excelize.OpenFile(cfg.OutputFile)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, []string{"primary quarter sum", "secondary weekday mean"}, f.GetSheetList())

		label, err := f.GetCellValue("primary quarter sum", "B2")
		require.NoError(t, err)
		assert.Equal(t, "Q1", label)
	})
}

func TestPrintRows(t *testing.T) {
	t.Run("csv matches export", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "rows.csv")
		require.NoError(t, PrintRows(testRows(), cfg))

		var buf bytes.Buffer
		require.NoError(t, WriteExportCSV(&buf, testRows()))
		assert.Equal(t, buf.String(), readFile(t, cfg.OutputFile))
	})

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "rows.txt")
		require.NoError(t, PrintRows(testRows(), cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "Thursday")
		assert.Contains(t, out, "Weekend")
		assert.NotContains(t, out, "WEEKEND")
		assert.Contains(t, out, "Showing 3 rows")
	})

	t.Run("xlsx", func(t *testing.T) {
		cfg := testConfig(t, schema.XLSXOut, "rows.xlsx")
		require.NoError(t, PrintRows(testRows(), cfg))

		f, err := excelize.OpenFile(cfg.OutputFile)
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		rows, err := f.GetRows("rows")
		require.NoError(t, err)
		require.Len(t, rows, 4)
		assert.Equal(t, schema.FlatColumns, rows[0])
		assert.Equal(t, "2024-02-29", rows[1][0])
	})

	t.Run("xlsx needs a file", func(t *testing.T) {
		cfg := testConfig(t, schema.XLSXOut, "")
		assert.ErrorIs(t, PrintRows(testRows(), cfg), errOutputFileRequired)
	})
}

func TestPrintCharts(t *testing.T) {
	set := schema.ChartSet{
		Timeseries: schema.TimeseriesChart{Title: "Trend", Lines: []schema.LineSeries{
			{Key: schema.PrimarySeries, Name: "Brand", Points: []schema.TimePoint{{Period: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 5}}},
		}},
		WeekdayBar: schema.BarChart{Title: "Weekday", Buckets: []schema.BucketValue{{Label: "Monday", Value: schema.Some(5), Count: 1}}},
		Scatter:    schema.ScatterChart{Title: "Scatter"},
	}

	t.Run("text", func(t *testing.T) {
		cfg := testConfig(t, schema.TextOut, "charts.txt")
		require.NoError(t, PrintCharts(set, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "peak Monday 5.0")
		assert.Contains(t, out, "weekend_violin")
	})

	t.Run("csv", func(t *testing.T) {
		cfg := testConfig(t, schema.CSVOut, "charts.csv")
		require.NoError(t, PrintCharts(set, cfg))
		out := readFile(t, cfg.OutputFile)
		assert.Contains(t, out, "timeseries,Brand,2024-01-01,5\n")
		assert.Contains(t, out, "weekday_bar,,Monday,5\n")
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := testConfig(t, schema.ParquetOut, "charts.parquet")
		assert.Error(t, PrintCharts(set, cfg))
	})
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		in       string
		width    int
		expected string
	}{
		{"Brand", 10, "Brand"},
		{"설빙 기프티콘", 5, "설빙..."},
		{"abcdefghijk", 8, "abcde..."},
		{"abc", 2, "abc"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, truncateLabel(tt.in, tt.width))
	}
}

func TestGetMaxLabelWidth(t *testing.T) {
	assert.Equal(t, 10, getMaxLabelWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 20, getMaxLabelWidth(&contract.Config{Width: 70}))
	assert.Equal(t, 40, getMaxLabelWidth(&contract.Config{Width: 300}))
}
