package service

import (
	"context"
	"errors"
	"strings"

	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/queue"
	"github.com/clparker78/straight-razor-draft/internal/adapters/repository"
	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/domain/commentary"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

func (s *Service) current(ctx context.Context) (repository.Snapshot, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return repository.Snapshot{}, ErrNotStarted
	}
	return store.Current(ctx), nil
}

// TopN returns the top n standings; n == 0 returns all of them.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return nil, ErrNotStarted
	}

	entries, err := store.TopN(ctx, n)
	if err != nil {
		return nil, err
	}

	out := make([]types.Standing, len(entries))
	for i, e := range entries {
		out[i] = types.NewStanding(e.Rank, e.Row)
	}
	return out, nil
}

// Rank returns the standing of one participant.
func (s *Service) Rank(ctx context.Context, participant string) (types.Standing, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store == nil {
		return types.Standing{}, ErrNotStarted
	}

	e, err := store.Rank(ctx, participant)
	if err != nil {
		return types.Standing{}, err
	}
	return types.NewStanding(e.Rank, e.Row), nil
}

// Commentary returns the lines published by the last refresh, or the
// placeholder before the first one.
func (s *Service) Commentary(ctx context.Context) (types.Commentary, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return types.Commentary{}, err
	}
	if len(snap.Commentary) == 0 {
		return types.Commentary{Lines: []string{commentary.Placeholder}}, nil
	}
	return types.Commentary{
		Lines:     append([]string(nil), snap.Commentary...),
		Seq:       snap.Seq,
		UpdatedAt: snap.At,
	}, nil
}

// Picks returns the reported picks in pick order.
func (s *Service) Picks(ctx context.Context) ([]types.PickRecord, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]types.PickRecord, len(snap.Picks))
	for i, p := range snap.Picks {
		out[i] = types.NewPickRecord(p)
	}
	return out, nil
}

// LatestPick returns the highest numbered reported pick.
func (s *Service) LatestPick(ctx context.Context) (types.LatestPick, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return types.LatestPick{}, err
	}
	if len(snap.Picks) == 0 {
		return types.LatestPick{}, ErrNoPicks
	}

	last := snap.Picks[len(snap.Picks)-1]
	return types.LatestPick{
		PickRecord: types.NewPickRecord(last),
		Reported:   len(snap.Picks),
		Total:      model.FirstRound,
		Celebrate:  s.celebrateTeam != "" && strings.EqualFold(last.Team, s.celebrateTeam),
		Fresh:      len(snap.Picks) > snap.PicksBefore,
	}, nil
}

// Race returns the leading lanes with progress toward a perfect score.
func (s *Service) Race(ctx context.Context) ([]types.Lane, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	n := min(raceLanes, len(snap.Board))
	lanes := make([]types.Lane, n)
	for i, r := range snap.Board[:n] {
		lanes[i] = types.Lane{
			Participant: r.Participant,
			Score:       r.Score,
			Progress:    float64(r.Score) / float64(model.MaxScore),
		}
	}
	return lanes, nil
}

// SubmitPick records a manual pick and queues a refresh.
func (s *Service) SubmitPick(ctx context.Context, p model.Pick) (types.RefreshTicket, error) {
	if !s.isStarted() {
		return types.RefreshTicket{}, ErrNotStarted
	}
	if s.manual == nil {
		metrics.RecordManualPick("disabled")
		return types.RefreshTicket{}, ErrManualDisabled
	}

	if err := s.manual.Submit(ctx, p); err != nil {
		outcome := "rejected"
		if errors.Is(err, source.ErrDuplicatePick) {
			outcome = "duplicate"
		}
		metrics.RecordManualPick(outcome)
		s.logger.Debug(ctx, "pick not recorded",
			logger.Int("pick", p.Number),
			logger.String("player", p.Player),
			logger.Error(err),
		)
		return types.RefreshTicket{}, err
	}

	metrics.RecordManualPick("accepted")
	s.logger.Info(ctx, "pick recorded",
		logger.Int("pick", p.Number),
		logger.String("player", p.Player),
		logger.String("team", p.Team),
	)
	return s.RequestRefresh(ctx, queue.ReasonPick, false)
}

// RemovePick deletes a manual pick and queues a refresh.
func (s *Service) RemovePick(ctx context.Context, number int) (types.RefreshTicket, error) {
	if !s.isStarted() {
		return types.RefreshTicket{}, ErrNotStarted
	}
	if s.manual == nil {
		return types.RefreshTicket{}, ErrManualDisabled
	}

	p, err := s.manual.Remove(ctx, number)
	if err != nil {
		return types.RefreshTicket{}, err
	}

	metrics.RecordManualPick("removed")
	s.logger.Info(ctx, "pick removed",
		logger.Int("pick", p.Number),
		logger.String("player", p.Player),
	)
	return s.RequestRefresh(ctx, queue.ReasonPick, false)
}
