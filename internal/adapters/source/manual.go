package source

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/clparker78/straight-razor-draft/internal/domain/dedupe"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
)

// ManualResults is an in-memory pick ledger fed by operators. The deduper
// remembers every recorded (pick, player) pair, so resubmitting the same pick
// is answered with ErrDuplicatePick while a different player at a filled
// pick number is ErrPickTaken.
type ManualResults struct {
	mu      sync.RWMutex
	picks   map[int]model.Pick
	players map[string]int
	seen    dedupe.Deduper
}

// NewManualResults creates an empty ledger. seen may be nil. A bounded
// deduper must hold at least FirstRound+1 keys or recorded picks stop being
// recognized.
func NewManualResults(seen dedupe.Deduper) *ManualResults {
	if seen == nil {
		seen = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
	}
	return &ManualResults{
		picks:   make(map[int]model.Pick),
		players: make(map[string]int),
		seen:    seen,
	}
}

func pickKey(p model.Pick) string { return "pick-" + strconv.Itoa(p.Number) + "|" + p.Player }

// Submit records a pick.
func (m *ManualResults) Submit(ctx context.Context, p model.Pick) error {
	p.Player = strings.TrimSpace(p.Player)
	p.Team = strings.TrimSpace(p.Team)
	if p.Number < 1 || p.Number > model.FirstRound {
		return fmt.Errorf("%w: pick number %d outside 1..%d", ErrInvalidPick, p.Number, model.FirstRound)
	}
	if p.Player == "" {
		return fmt.Errorf("%w: player is required", ErrInvalidPick)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := pickKey(p)
	if m.seen.SeenAndRecord(ctx, key) {
		return fmt.Errorf("%w: #%d %s", ErrDuplicatePick, p.Number, p.Player)
	}
	if cur, ok := m.picks[p.Number]; ok {
		m.seen.Unrecord(ctx, key)
		return fmt.Errorf("%w: #%d is %s", ErrPickTaken, p.Number, cur.Player)
	}
	if at, ok := m.players[p.Player]; ok {
		m.seen.Unrecord(ctx, key)
		return fmt.Errorf("%w: %s went at #%d", ErrPlayerTaken, p.Player, at)
	}
	m.picks[p.Number] = p
	m.players[p.Player] = p.Number
	return nil
}

// Remove deletes a reported pick so it can be entered again.
func (m *ManualResults) Remove(ctx context.Context, number int) (model.Pick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.picks[number]
	if !ok {
		return model.Pick{}, fmt.Errorf("%w: #%d", ErrPickNotFound, number)
	}
	delete(m.picks, number)
	delete(m.players, p.Player)
	m.seen.Unrecord(ctx, pickKey(p))
	return p, nil
}

// Load returns the ledger ordered by pick number.
func (m *ManualResults) Load(_ context.Context) ([]model.Pick, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	picks := make([]model.Pick, 0, len(m.picks))
	for _, p := range m.picks {
		picks = append(picks, p)
	}
	sort.Slice(picks, func(i, j int) bool { return picks[i].Number < picks[j].Number })
	return picks, nil
}

// Len returns the number of recorded picks.
func (m *ManualResults) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.picks)
}
