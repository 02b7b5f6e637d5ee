package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/queue"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// RefreshDependencies defines the interface for refresh requests.
type RefreshDependencies interface {
	RequestRefresh(ctx context.Context, reason string, clearCache bool) (types.RefreshTicket, error)
}

// RefreshHandler queues refreshes.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh[?clear_cache=true] requests. The
// refresh runs in the background; the response says whether it was queued
// or folded into one already pending.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"

	clearCache := false
	if v := r.URL.Query().Get("clear_cache"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		clearCache = b
	}

	ticket, err := h.deps.RequestRefresh(r.Context(), queue.ReasonManual, clearCache)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ticket)
}
