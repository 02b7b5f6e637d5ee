// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// Standing is a leaderboard row with its rank, as served by the API.
type Standing struct {
	Rank          int    `json:"rank"`
	Participant   string `json:"participant"`
	Score         int    `json:"score"`
	Correct       int    `json:"correct"`
	CurrentStreak int    `json:"current_streak"`
	MaxStreak     int    `json:"max_streak"`
}

// NewStanding converts a row at a 1-based rank.
func NewStanding(rank int, r model.Row) Standing {
	return Standing{
		Rank:          rank,
		Participant:   r.Participant,
		Score:         r.Score,
		Correct:       r.Correct,
		CurrentStreak: r.CurrentStreak,
		MaxStreak:     r.MaxStreak,
	}
}

// PickRecord is a reported pick as served by the API.
type PickRecord struct {
	Pick   int    `json:"pick"`
	Player string `json:"player"`
	Team   string `json:"team"`
}

// NewPickRecord converts a domain pick.
func NewPickRecord(p model.Pick) PickRecord {
	return PickRecord{Pick: p.Number, Player: p.Player, Team: p.Team}
}

// Lane is one runner in the race visual.
type Lane struct {
	Participant string  `json:"participant"`
	Score       int     `json:"score"`
	Progress    float64 `json:"progress"` // Score / MaxScore, 0..1
}

// LatestPick is the most recent reported pick with the draft progress.
type LatestPick struct {
	PickRecord
	Reported  int  `json:"reported"`
	Total     int  `json:"total"`
	Celebrate bool `json:"celebrate"`
	Fresh     bool `json:"fresh"` // reported since the previous refresh
}

// Commentary is the set of lines published by the last refresh.
type Commentary struct {
	Lines     []string  `json:"lines"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Refresh request outcomes.
const (
	RefreshQueued  = "queued"
	RefreshPending = "pending"
)

// RefreshTicket acknowledges a refresh request.
type RefreshTicket struct {
	JobID      string `json:"job_id,omitempty"`
	Status     string `json:"status"`
	ClearCache bool   `json:"clear_cache"`
}

// SourceState reports how the last fetch of a source went.
type SourceState struct {
	Status   string    `json:"status"`
	Error    string    `json:"error,omitempty"`
	Cached   bool      `json:"cached"`
	LoadedAt time.Time `json:"loaded_at"`
}
