package api

import (
	"context"
	"net/http"

	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// RaceDependencies defines the interface for the race view.
type RaceDependencies interface {
	Race(ctx context.Context) ([]types.Lane, error)
}

// RaceHandler serves the leading lanes.
type RaceHandler struct {
	deps RaceDependencies
}

// NewRaceHandler creates a new race handler.
func NewRaceHandler(deps RaceDependencies) *RaceHandler {
	return &RaceHandler{deps: deps}
}

// HandleGetRace handles GET /race requests.
func (h *RaceHandler) HandleGetRace(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_race"
	lanes, err := h.deps.Race(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lanes)
}
