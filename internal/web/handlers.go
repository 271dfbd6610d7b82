package web

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/huangsam/trendscope/core"
	"github.com/huangsam/trendscope/core/chart"
	"github.com/huangsam/trendscope/internal/chartpng"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/outwriter"
	"github.com/huangsam/trendscope/schema"
)

// selection is what a request asks to see.
type selection struct {
	Years schema.YearSet
	Query string
}

// parseSelection reads years and search query. On error it has already answered 400.
func (s *Server) parseSelection(w http.ResponseWriter, r *http.Request) (selection, bool) {
	years, err := parseYears(r, s.cfg.YearOptions)
	if err != nil {
		if wantsHTML(r) {
			s.renderError(w, r, http.StatusBadRequest, err)
		} else {
			writeProblem(w, r, http.StatusBadRequest, err.Error())
		}
		return selection{}, false
	}
	return selection{Years: years, Query: r.URL.Query().Get("q")}, true
}

// configFor narrows the server configuration to one selection.
func (s *Server) configFor(sel selection) *contract.Config {
	cfg := s.cfg.CloneWithYears(sel.Years)
	cfg.Query = sel.Query
	return cfg
}

// filtered loads the dataset and applies the year selection to both series.
func (s *Server) filtered(w http.ResponseWriter, r *http.Request, sel selection) (primary, secondary *schema.SeriesTable, ok bool) {
	ds, err := s.dataset(r.Context())
	if err != nil {
		writeProblem(w, r, http.StatusServiceUnavailable, err.Error())
		return nil, nil, false
	}
	return core.FilterByYears(ds.Primary, sel.Years), core.FilterByYears(ds.Secondary, sel.Years), true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "dataset_loaded": s.loadErr == nil}
	if s.loadErr != nil {
		body["status"] = "degraded"
		body["error"] = s.loadErr.Error()
	}
	render.JSON(w, r, body)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	ctx := core.WithSuppressHeader(r.Context())
	ctx, dash, err := core.ComputeDashboard(ctx, s.src, s.configFor(sel), s.mgr)
	if err != nil {
		s.renderError(w, r, http.StatusServiceUnavailable, err)
		return
	}
	s.metrics.dashboards.Inc()
	s.renderPage(w, r, s.newPageData(sel, dash, core.RunIDFrom(ctx)))
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	summary := core.Summarize(primary, secondary, s.cfg.Align)
	summary.Years = sel.Years.Sorted()
	render.JSON(w, r, summary)
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	render.JSON(w, r, chart.Build(primary, secondary, chart.Options{Bins: s.cfg.Bins}))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	kind := schema.BucketKind(chi.URLParam(r, "bucket"))
	if _, ok := schema.ValidBucketKinds[kind]; !ok {
		writeProblem(w, r, http.StatusNotFound, "unknown bucket "+strconv.Quote(string(kind)))
		return
	}
	op := schema.ReduceOp(r.URL.Query().Get("op"))
	if op == "" {
		op = schema.MeanOp
	}
	if _, ok := schema.ValidReduceOps[op]; !ok {
		writeProblem(w, r, http.StatusBadRequest, "op must be mean or sum")
		return
	}
	key := schema.SeriesKey(r.URL.Query().Get("series"))
	if key == "" {
		key = schema.PrimarySeries
	}
	if _, ok := schema.ValidSeriesKeys[key]; !ok {
		writeProblem(w, r, http.StatusBadRequest, "series must be primary or secondary")
		return
	}

	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	table := primary
	if key == schema.SecondarySeries {
		table = secondary
	}
	b := core.Breakdown(table, kind, op)
	b.Years = sel.Years.Sorted()
	render.JSON(w, r, b)
}

// rowsResponse is the body of /api/rows.
type rowsResponse struct {
	Query string           `json:"query"`
	Total int              `json:"total"`
	Rows  []schema.FlatRow `json:"rows"`
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeProblem(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	rows := core.SearchRows(core.CombineRows(primary, secondary), sel.Query)
	resp := rowsResponse{Query: sel.Query, Total: len(rows), Rows: rows}
	if limit > 0 && limit < len(rows) {
		resp.Rows = rows[:limit]
	}
	render.JSON(w, r, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	rows := core.SearchRows(core.CombineRows(primary, secondary), sel.Query)

	var buf bytes.Buffer
	if err := outwriter.WriteExportCSV(&buf, rows); err != nil {
		writeProblem(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": s.cfg.ExportName}))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	name := schema.ChartName(chi.URLParam(r, "name"))
	if !chartpng.IsSupported(name) {
		writeProblem(w, r, http.StatusNotFound, "no PNG chart named "+strconv.Quote(string(name)))
		return
	}
	sel, ok := s.parseSelection(w, r)
	if !ok {
		return
	}
	primary, secondary, ok := s.filtered(w, r, sel)
	if !ok {
		return
	}
	set := chart.Build(primary, secondary, chart.Options{Bins: s.cfg.Bins})

	var buf bytes.Buffer
	err := chartpng.Render(&buf, name, set, chartpng.DefaultOptions)
	switch {
	case errors.Is(err, chartpng.ErrNoData):
		s.metrics.chartRenders.WithLabelValues(string(name), "no_data").Inc()
		w.WriteHeader(http.StatusNoContent)
	case err != nil:
		s.metrics.chartRenders.WithLabelValues(string(name), "error").Inc()
		writeProblem(w, r, http.StatusInternalServerError, err.Error())
	default:
		s.metrics.chartRenders.WithLabelValues(string(name), "ok").Inc()
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(buf.Bytes())
	}
}
