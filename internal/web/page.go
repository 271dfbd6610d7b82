package web

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/trendscope/internal/chartpng"
	"github.com/huangsam/trendscope/schema"
)

// yearOption is one checkbox of the year filter.
type yearOption struct {
	Year    int
	Checked bool
}

// chartLink is one rendered chart image on the page.
type chartLink struct {
	Name  schema.ChartName
	Title string
	URL   string
}

// pageData feeds templates/index.html.
type pageData struct {
	Title       string
	YearOptions []yearOption
	Query       string
	Selection   string
	Dashboard   schema.Dashboard
	Charts      []chartLink
	ExportURL   string
	ExportName  string
	RowLimit    int
	HiddenRows  int
	Precision   int
	RunID       int64 // Recorded run, 0 when history is off
}

// errorData feeds templates/error.html.
type errorData struct {
	Status    int
	Title     string
	Detail    string
	RequestID string
}

// pageRowLimit caps the rows table on the page. The export is not capped.
const pageRowLimit = 500

func templateFuncs(precision int) template.FuncMap {
	return template.FuncMap{
		"opt": func(v schema.OptFloat) string {
			return v.Format(precision)
		},
		"optp": func(v schema.OptFloat, p int) string {
			return v.Format(p)
		},
		"share": func(v schema.OptFloat) string {
			f, ok := v.Get()
			if !ok {
				return schema.NoDataText
			}
			return fmt.Sprintf("%.1f%%", f*100)
		},
		"period": schema.FormatPeriod,
		"ratio":  schema.FormatRatio,
		"yesno":  schema.FormatBool,
		"years": func(years []int) string {
			if len(years) == 0 {
				return "none"
			}
			return schema.NewYearSet(years...).String()
		},
	}
}

func (s *Server) newPageData(sel selection, dash schema.Dashboard, runID int64) pageData {
	query := selectionQuery(sel.Years, sel.Query)
	data := pageData{
		Title:      fmt.Sprintf("%s search trends", s.cfg.Primary.Label),
		Query:      sel.Query,
		Selection:  query,
		Dashboard:  dash,
		ExportURL:  "/export.csv?" + query,
		ExportName: s.cfg.ExportName,
		RowLimit:   pageRowLimit,
		Precision:  s.cfg.Precision,
		RunID:      runID,
	}
	for _, y := range s.cfg.YearOptions {
		data.YearOptions = append(data.YearOptions, yearOption{Year: y, Checked: sel.Years.Contains(y)})
	}
	for _, name := range schema.AllChartNames {
		if !chartpng.IsSupported(name) {
			continue
		}
		data.Charts = append(data.Charts, chartLink{
			Name:  name,
			Title: chartTitle(dash.Charts, name),
			URL:   "/charts/" + string(name) + ".png?" + query,
		})
	}
	if len(dash.Rows) > pageRowLimit {
		data.HiddenRows = len(dash.Rows) - pageRowLimit
		data.Dashboard.Rows = dash.Rows[:pageRowLimit]
	}
	return data
}

func chartTitle(set schema.ChartSet, name schema.ChartName) string {
	switch name {
	case schema.TimeseriesChartName:
		return set.Timeseries.Title
	case schema.WeekdayBarChartName:
		return set.WeekdayBar.Title
	case schema.QuarterShareChartName:
		return set.QuarterShare.Title
	case schema.ScatterChartName:
		return set.Scatter.Title
	case schema.HistogramChartName:
		return set.Histogram.Title
	default:
		return string(name)
	}
}

// renderPage buffers the index template so a failure still answers 500.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "index.html", data); err != nil {
		s.logger.ErrorContext(r.Context(), "template failed", "error", err)
		writeProblem(w, r, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	data := errorData{
		Status:    status,
		Title:     http.StatusText(status),
		Detail:    err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}
	var buf bytes.Buffer
	if terr := s.pages.ExecuteTemplate(&buf, "error.html", data); terr != nil {
		writeProblem(w, r, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
