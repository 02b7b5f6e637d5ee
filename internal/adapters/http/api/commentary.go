package api

import (
	"context"
	"net/http"

	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// CommentaryDependencies defines the interface for commentary reads.
type CommentaryDependencies interface {
	Commentary(ctx context.Context) (types.Commentary, error)
}

// CommentaryHandler serves the latest commentary.
type CommentaryHandler struct {
	deps CommentaryDependencies
}

// NewCommentaryHandler creates a new commentary handler.
func NewCommentaryHandler(deps CommentaryDependencies) *CommentaryHandler {
	return &CommentaryHandler{deps: deps}
}

// HandleGetCommentary handles GET /commentary requests.
func (h *CommentaryHandler) HandleGetCommentary(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_commentary"
	c, err := h.deps.Commentary(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}
