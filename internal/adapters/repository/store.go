// Package repository holds the published leaderboard snapshots.
package repository

import (
	"context"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// Entry is a leaderboard row with its 1-based rank.
type Entry struct {
	Rank int
	model.Row
}

// Snapshot is everything one refresh cycle published.
type Snapshot struct {
	Seq         uint64
	At          time.Time
	Reason      string
	Board       model.Leaderboard
	Picks       []model.Pick
	Commentary  []string
	Rejected    []string
	NewLeader   bool
	PicksBefore int // picks reported in the snapshot this one replaced
}

// Store provides read/write access to published snapshots. Publish is called
// by a single writer; readers never block it.
type Store interface {
	// Publish makes snap current and returns it with Seq, At and
	// PicksBefore filled in.
	Publish(ctx context.Context, snap Snapshot) Snapshot

	// Current returns the latest snapshot, or the zero Snapshot before the first publish.
	Current(ctx context.Context) Snapshot

	// Rank returns the current rank and row for a participant.
	// Returns ErrNotFound if the participant is unknown.
	Rank(ctx context.Context, participant string) (Entry, error)

	// TopN returns the first n rows; n == 0 means all of them.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of participants on the current board.
	Count(ctx context.Context) int
}
