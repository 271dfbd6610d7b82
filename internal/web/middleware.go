package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// requestLogger logs one line per request with its request id.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request completed",
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

// requireData answers 503 while the dataset failed to load.
func (s *Server) requireData(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loadErr == nil {
			next.ServeHTTP(w, r)
			return
		}
		if wantsHTML(r) {
			s.renderError(w, r, http.StatusServiceUnavailable, s.loadErr)
			return
		}
		writeProblem(w, r, http.StatusServiceUnavailable, s.loadErr.Error())
	})
}

// wantsHTML reports whether the request is for a page rather than the JSON API or a file.
func wantsHTML(r *http.Request) bool {
	return r.URL.Path == "/"
}
