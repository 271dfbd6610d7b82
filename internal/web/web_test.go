package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/dataset"
	"github.com/huangsam/trendscope/internal/iocache"
	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	ds  *schema.Dataset
	err error
}

func (s staticSource) Open(context.Context) (*schema.Dataset, error) {
	return s.ds, s.err
}

func table(key schema.SeriesKey, label string, start time.Time, ratios ...float64) *schema.SeriesTable {
	t := &schema.SeriesTable{Key: key, Label: label, Source: string(key) + ".csv"}
	for i, v := range ratios {
		t.Rows = append(t.Rows, schema.NewRow(start.AddDate(0, 0, i), v))
	}
	return t
}

func testDataset() *schema.Dataset {
	start := time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)
	return &schema.Dataset{
		Dir:       "data",
		Primary:   table(schema.PrimarySeries, "설빙", start, 40, 55, 30, 20, 35, 50, 65, 70),
		Secondary: table(schema.SecondarySeries, "설빙 기프티콘", start, 4, 6, 3, 2, 3, 5, 7, 6),
	}
}

func testConfig() *contract.Config {
	return &contract.Config{
		Primary:     schema.SeriesSpec{Key: schema.PrimarySeries, Label: "설빙"},
		Secondary:   schema.SeriesSpec{Key: schema.SecondarySeries, Label: "설빙 기프티콘"},
		Align:       schema.TimestampAlign,
		YearOptions: []int{2024, 2025},
		Years:       schema.NewYearSet(2024, 2025),
		Bins:        5,
		Precision:   1,
		ExportName:  contract.DefaultExportName,
		Addr:        "127.0.0.1:0",
	}
}

func newTestServer(t *testing.T, src contract.DatasetSource) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), testConfig(), src, nil, logger)
	require.NoError(t, err)
	return s
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestIndex(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "Correlation (R)")
	assert.Contains(t, body, "/charts/timeseries.png?filtered=1&amp;year=2024&amp;year=2025")
	assert.Contains(t, body, `value="2024" checked`)
	assert.Contains(t, body, "Download CSV")
	assert.NotContains(t, body, "Recorded as run")

	rec = get(t, h, "/?filtered=1&year=2025&q=Saturday")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.NotContains(t, body, `value="2024" checked`)
	assert.Contains(t, body, `value="2025" checked`)
	assert.Contains(t, body, "2025-01-04")
	assert.NotContains(t, body, "2024-12-28")

	rec = get(t, h, "/?filtered=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no matching rows")
}

func TestIndexShowsRecordedRun(t *testing.T) {
	store := &iocache.MockRunStore{}
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetRunStore").Return(store)
	store.On("BeginRun", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(42), nil)
	store.On("EndRun", int64(42), mock.AnythingOfType("time.Time"), mock.Anything, mock.Anything).Return(nil)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(context.Background(), testConfig(), staticSource{ds: testDataset()}, mgr, logger)
	require.NoError(t, err)

	rec := get(t, s.Routes(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Recorded as run #42")
	store.AssertExpectations(t)
}

func TestIndexRejectsUnknownYear(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()
	rec := get(t, h, "/?year=1999")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "1999")

	rec = get(t, h, "/api/summary?years=abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestLoadFailureServesErrors(t *testing.T) {
	s := newTestServer(t, staticSource{err: dataset.ErrNoFilesFound})
	require.ErrorIs(t, s.LoadErr(), dataset.ErrNoFilesFound)
	h := s.Routes()

	rec := get(t, h, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "Check that the data directory")

	rec = get(t, h, "/api/summary")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var problem ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, http.StatusServiceUnavailable, problem.Status)
	assert.Contains(t, problem.Detail, "no matching files")

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/export.csv").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/charts/timeseries.png").Code)

	rec = get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"degraded"`)
	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dataset_loaded":true`)

	get(t, h, "/")
	rec = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "trendscope_dashboard_renders_total 1")
	assert.Contains(t, body, `trendscope_dataset_rows{series="primary"} 8`)
	assert.Contains(t, body, "trendscope_http_requests_total")
}

func TestExport(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()

	rec := get(t, h, "/export.csv?q=True")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), contract.DefaultExportName)

	body := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte("\xEF\xBB\xBF")))
	lines := strings.Split(strings.TrimSpace(string(body[3:])), "\n")
	assert.Equal(t, "period,ratio,month,year,dayofweek,is_weekend,series", strings.TrimSpace(lines[0]))
	// 2024-12-28, 2024-12-29, 2025-01-04 are weekend days in both series.
	assert.Len(t, lines[1:], 6)

	rows, err := dataset.Parse(bytes.NewReader(body), "export.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 6)
}

func TestChartPNG(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()

	for _, name := range []string{"timeseries", "weekday_bar", "quarter_share", "scatter", "histogram"} {
		t.Run(name, func(t *testing.T) {
			rec := get(t, h, "/charts/"+name+".png")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
		})
	}

	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/monthly_box.png").Code)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/charts/nope.png").Code)
	assert.Equal(t, http.StatusNoContent, get(t, h, "/charts/timeseries.png?filtered=1").Code)
}

func TestAPI(t *testing.T) {
	h := newTestServer(t, staticSource{ds: testDataset()}).Routes()

	t.Run("summary", func(t *testing.T) {
		rec := get(t, h, "/api/summary?years=2024")
		require.Equal(t, http.StatusOK, rec.Code)
		var summary schema.Summary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
		assert.Equal(t, []int{2024}, summary.Years)
		assert.Equal(t, 4, summary.PrimaryRows)
		assert.True(t, summary.Correlation.Valid())
	})

	t.Run("empty selection has no data", func(t *testing.T) {
		rec := get(t, h, "/api/summary?filtered=1")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"primary_mean":null`)
	})

	t.Run("breakdown", func(t *testing.T) {
		rec := get(t, h, "/api/breakdown/quarter?op=sum&series=secondary")
		require.Equal(t, http.StatusOK, rec.Code)
		var b schema.Breakdown
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, schema.QuarterBucket, b.Kind)
		assert.Equal(t, schema.SecondarySeries, b.Series)
		require.Len(t, b.Buckets, 4)
		assert.Equal(t, 1, b.Buckets[0].Bucket)

		assert.Equal(t, http.StatusNotFound, get(t, h, "/api/breakdown/hour").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/breakdown/month?op=median").Code)
		assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/breakdown/month?series=third").Code)
	})

	t.Run("rows", func(t *testing.T) {
		rec := get(t, h, "/api/rows?q=saturday&limit=1")
		require.Equal(t, http.StatusOK, rec.Code)
		var resp rowsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 4, resp.Total)
		assert.Len(t, resp.Rows, 1)

		assert.Equal(t, http.StatusBadRequest, get(t, h, "/api/rows?limit=-1").Code)
	})

	t.Run("charts", func(t *testing.T) {
		rec := get(t, h, "/api/charts")
		require.Equal(t, http.StatusOK, rec.Code)
		var set schema.ChartSet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
		assert.Len(t, set.Timeseries.Lines, 2)
		assert.NotNil(t, set.Scatter.Trend)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := get(t, h, "/api/nothing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, staticSource{ds: testDataset()})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
