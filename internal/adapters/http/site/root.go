// Package site serves the embedded live dashboard.
package site

import (
	"context"
	"errors"
	"net/http"
)

// Error constants
var (
	ErrNilMux = errors.New("site: mux is nil")
)

// Register attaches the dashboard to the root of mux. API routes registered
// on more specific patterns take precedence.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic(ErrNilMux)
	}
	mux.Handle("GET /", NewRootHandler())
}

// RootHandler serves the dashboard page and its assets.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves GET / and the static assets next to it.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	h.files.ServeHTTP(w, r)
}
