package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/queue"
	"github.com/clparker78/straight-razor-draft/internal/adapters/repository"
	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/domain/commentary"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/internal/domain/types"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

// Refresh runs one refresh cycle: load both sources, score, comment against
// the previous board and publish. It is called by the worker and never
// overlaps with another cycle.
func (s *Service) Refresh(ctx context.Context, job queue.Job) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	if job.ClearCache {
		s.clearCaches(ctx)
	}

	var (
		results source.Outcome[[]model.Pick]
		entries source.Outcome[[]model.Entry]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		results = s.results.Fetch(gctx)
		return nil
	})
	g.Go(func() error {
		entries = s.entries.Fetch(gctx)
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("refresh %s: %w", job.Reason, err)
	}

	// An unavailable source contributes nothing.
	var (
		picks []model.Pick
		ents  []model.Entry
	)
	if results.OK() {
		picks = results.Data
	} else {
		s.logger.Warn(ctx, "scoring without reported picks",
			logger.String("source", s.results.Name()),
			logger.Error(results.Err),
		)
	}
	if entries.OK() {
		ents = entries.Data
	} else {
		s.logger.Warn(ctx, "scoring without entries",
			logger.String("source", s.entries.Name()),
			logger.Error(entries.Err),
		)
	}

	res := s.engine.Run(ents, picks)
	for _, r := range res.Rejected {
		s.logger.Warn(ctx, "entry rejected",
			logger.String("participant", r.Participant),
			logger.Int("slots", r.Slots),
			logger.Error(r.Err),
		)
	}

	prev := s.store.Current(ctx)
	lines := commentary.Lines(prev.Board, res.Board)

	snap := repository.Snapshot{
		Reason:     job.Reason,
		Board:      res.Board,
		Picks:      picks,
		Commentary: make([]string, len(lines)),
		Rejected:   make([]string, len(res.Rejected)),
	}
	for i, l := range lines {
		snap.Commentary[i] = l.Text
		snap.NewLeader = snap.NewLeader || l.Kind == commentary.KindNewLeader
		metrics.RecordCommentaryLine(string(l.Kind))
	}
	for i, r := range res.Rejected {
		snap.Rejected[i] = r.Participant
	}
	snap = s.store.Publish(ctx, snap)

	took := time.Since(start)
	metrics.RecordRefresh(job.Reason, float64(took.Milliseconds()), snap.At.Unix())
	metrics.UpdatePicksReported(len(snap.Picks))
	metrics.UpdateParticipants(len(snap.Board))
	metrics.RecordEntriesRejected(len(snap.Rejected))
	if snap.NewLeader {
		metrics.RecordLeaderChange()
	}

	s.logger.Info(ctx, "leaderboard refreshed",
		logger.String("job", job.ID),
		logger.String("reason", job.Reason),
		logger.Any("seq", snap.Seq),
		logger.Int("picks", len(snap.Picks)),
		logger.Int("participants", len(snap.Board)),
		logger.Int("rejected", len(snap.Rejected)),
		logger.String("results", string(results.Status)),
		logger.String("entries", string(entries.Status)),
		logger.String("leader", snap.Board.Leader()),
		logger.Duration("took", took),
	)
	return nil
}

// RequestRefresh queues a refresh. When one is already waiting the request
// is folded into it and reported as pending. clearCache drops cached loads
// right away so the next cycle reloads both sources.
func (s *Service) RequestRefresh(ctx context.Context, reason string, clearCache bool) (types.RefreshTicket, error) {
	if !s.isStarted() {
		return types.RefreshTicket{}, ErrNotStarted
	}
	if clearCache {
		s.clearCaches(ctx)
	}

	job := queue.NewJob(reason, clearCache)
	ticket := types.RefreshTicket{Status: types.RefreshPending, ClearCache: clearCache}
	if s.enqueue(ctx, job) {
		ticket.JobID = job.ID
		ticket.Status = types.RefreshQueued
	}
	return ticket, nil
}

func (s *Service) enqueue(ctx context.Context, job queue.Job) bool {
	if s.queue.Enqueue(ctx, job) {
		return true
	}
	if !s.queue.IsClosed() {
		metrics.RecordRefreshCoalesced()
		s.logger.Debug(ctx, "refresh already pending",
			logger.String("reason", job.Reason),
		)
	}
	return false
}

func (s *Service) clearCaches(ctx context.Context) {
	s.results.Clear()
	s.entries.Clear()
	s.logger.Debug(ctx, "source caches cleared",
		logger.Strings("sources", []string{s.results.Name(), s.entries.Name()}),
	)
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func sourceState[T any](o source.Outcome[T]) types.SourceState {
	st := types.SourceState{
		Status:   string(o.Status),
		Cached:   o.Cached,
		LoadedAt: o.LoadedAt,
	}
	if o.Err != nil {
		st.Error = o.Err.Error()
	}
	return st
}
