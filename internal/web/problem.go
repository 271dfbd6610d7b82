package web

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

// ProblemDetails is an RFC 7807 error body.
type ProblemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Render implements the render.Renderer interface.
func (pd *ProblemDetails) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, pd.Status)
	return nil
}

// newProblem builds a problem for r with the standard title of status.
func newProblem(r *http.Request, status int, detail string) *ProblemDetails {
	return &ProblemDetails{
		Type:      "about:blank",
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    detail,
		Instance:  r.URL.Path,
		RequestID: middleware.GetReqID(r.Context()),
	}
}

// writeProblem renders a JSON problem response.
func writeProblem(w http.ResponseWriter, r *http.Request, status int, detail string) {
	_ = render.Render(w, r, newProblem(r, status, detail))
}
