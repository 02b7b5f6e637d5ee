package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
)

// PicksDependencies defines the interface for pick reads and manual entry.
type PicksDependencies interface {
	Picks(ctx context.Context) ([]types.PickRecord, error)
	LatestPick(ctx context.Context) (types.LatestPick, error)
	SubmitPick(ctx context.Context, p model.Pick) (types.RefreshTicket, error)
	RemovePick(ctx context.Context, number int) (types.RefreshTicket, error)
}

// PicksHandler handles the pick tracker routes.
type PicksHandler struct {
	deps PicksDependencies
}

// NewPicksHandler creates a new picks handler.
func NewPicksHandler(deps PicksDependencies) *PicksHandler {
	return &PicksHandler{deps: deps}
}

// pickRequest mirrors the OpenAPI schema for POST /picks.
type pickRequest struct {
	Pick   int    `json:"pick"`
	Player string `json:"player"`
	Team   string `json:"team"`
}

func (p pickRequest) validate() error {
	switch {
	case p.Pick < 1 || p.Pick > model.FirstRound:
		return errors.New("pick must be between 1 and 32")
	case strings.TrimSpace(p.Player) == "":
		return errors.New("missing player")
	}
	return nil
}

type ackResponse struct {
	Status    string               `json:"status"`
	Duplicate bool                 `json:"duplicate"`
	Refresh   *types.RefreshTicket `json:"refresh,omitempty"`
}

// HandleListPicks handles GET /picks requests.
func (h *PicksHandler) HandleListPicks(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_picks"
	picks, err := h.deps.Picks(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, picks)
}

// HandleLatestPick handles GET /picks/latest requests.
func (h *PicksHandler) HandleLatestPick(w http.ResponseWriter, r *http.Request) {
	const op = "api.latest_pick"
	lp, err := h.deps.LatestPick(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, lp)
}

// HandlePostPick handles POST /picks requests. A pick number that was
// already entered is acknowledged as a duplicate rather than an error.
func (h *PicksHandler) HandlePostPick(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_pick"
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}

	ticket, err := h.deps.SubmitPick(r.Context(), model.Pick{
		Number: req.Pick,
		Player: req.Player,
		Team:   req.Team,
	})
	if errors.Is(err, source.ErrDuplicatePick) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Refresh: &ticket})
}

// HandleDeletePick handles DELETE /picks/{number} requests.
func (h *PicksHandler) HandleDeletePick(w http.ResponseWriter, r *http.Request) {
	const op = "api.delete_pick"
	n, err := strconv.Atoi(r.PathValue("number"))
	if err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	ticket, err := h.deps.RemovePick(r.Context(), n)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "removed", Refresh: &ticket})
}
