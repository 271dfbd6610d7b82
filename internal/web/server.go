// Package web serves the dashboard over HTTP.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/schema"
)

//go:embed templates/*.html
var templateFS embed.FS

const shutdownTimeout = 10 * time.Second

// Server is the dashboard HTTP server.
type Server struct {
	cfg     *contract.Config
	src     contract.DatasetSource
	mgr     contract.StoreManager
	logger  *slog.Logger
	metrics *serverMetrics
	pages   *template.Template

	// loadErr is set when the startup load failed; data routes then answer 503.
	loadErr error
}

// New creates a server and performs the startup load.
// A failed load does not fail construction.
func New(ctx context.Context, cfg *contract.Config, src contract.DatasetSource, mgr contract.StoreManager, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	pages, err := template.New("pages").Funcs(templateFuncs(cfg.Precision)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s := &Server{
		cfg:     cfg,
		src:     src,
		mgr:     mgr,
		logger:  logger,
		metrics: newServerMetrics(),
		pages:   pages,
	}

	ds, err := src.Open(ctx)
	if err != nil {
		s.loadErr = err
		logger.ErrorContext(ctx, "dataset load failed", slog.String("error", err.Error()))
	} else {
		s.metrics.observeDataset(ds)
		logger.InfoContext(ctx, "dataset loaded",
			slog.String("dir", ds.Dir),
			slog.Int("primary_rows", ds.Primary.Len()),
			slog.Int("secondary_rows", ds.Secondary.Len()),
		)
	}
	return s, nil
}

// LoadErr returns the startup load error, if any.
func (s *Server) LoadErr() error {
	return s.loadErr
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.metrics.instrument)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireData)
		r.Get("/", s.handleIndex)
		r.Get("/export.csv", s.handleExport)
		r.Get("/charts/{name}.png", s.handleChartPNG)
		r.Route("/api", func(r chi.Router) {
			r.Get("/summary", s.handleSummary)
			r.Get("/charts", s.handleCharts)
			r.Get("/breakdown/{bucket}", s.handleBreakdown)
			r.Get("/rows", s.handleRows)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "no such route")
	})
	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", slog.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// dataset returns the cached dataset.
func (s *Server) dataset(ctx context.Context) (*schema.Dataset, error) {
	return s.src.Open(ctx)
}
