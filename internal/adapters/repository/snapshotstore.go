package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var _ Store = (*SnapshotStore)(nil)

type state struct {
	current Snapshot
	index   map[string]int // participant -> 0-based position, first occurrence
}

// SnapshotStore keeps the current snapshot behind an atomic pointer. Snapshots are treated as immutable once published.
type SnapshotStore struct {
	mu  sync.Mutex // serializes writers
	st  atomic.Pointer[state]
	now func() time.Time
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore(_ context.Context, opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.st.Store(&state{index: map[string]int{}})
	return s
}

func (s *SnapshotStore) Publish(_ context.Context, snap Snapshot) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.st.Load()
	snap.Seq = old.current.Seq + 1
	if snap.At.IsZero() {
		snap.At = s.now()
	}
	snap.PicksBefore = len(old.current.Picks)
	snap.Board = snap.Board.Clone()

	index := make(map[string]int, len(snap.Board))
	for i, r := range snap.Board {
		if _, ok := index[r.Participant]; !ok {
			index[r.Participant] = i
		}
	}

	s.st.Store(&state{current: snap, index: index})
	return snap
}

func (s *SnapshotStore) Current(_ context.Context) Snapshot {
	return s.st.Load().current
}

func (s *SnapshotStore) Rank(_ context.Context, participant string) (Entry, error) {
	st := s.st.Load()
	i, ok := st.index[participant]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, participant)
	}
	return Entry{Rank: i + 1, Row: st.current.Board[i]}, nil
}

func (s *SnapshotStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	board := s.st.Load().current.Board
	if n == 0 || n > len(board) {
		n = len(board)
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = Entry{Rank: i + 1, Row: board[i]}
	}
	return out, nil
}

func (s *SnapshotStore) Count(_ context.Context) int {
	return len(s.st.Load().current.Board)
}
