package replay

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
)

// Run replays every pick in cfg.ResultsPath against the service and returns
// what the leaderboard looked like afterwards.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if cfg.ResultsPath == "" {
		return nil, ErrNoResults
	}
	start := time.Now()

	picks, err := readPicks(cfg.ResultsPath)
	if err != nil {
		return nil, err
	}

	c := newClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}

	log.Info(ctx, "replaying draft",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("picks", len(picks)),
		logger.Duration("delay", cfg.Delay))

	stats := &Stats{Picks: len(picks)}
	for i, p := range picks {
		if i > 0 && cfg.Delay > 0 {
			if err := sleep(ctx, cfg.Delay); err != nil {
				return stats, err
			}
		}
		outcome := c.submit(ctx, p)
		switch outcome {
		case outcomeAccepted:
			stats.Accepted++
		case outcomeDuplicate:
			stats.Duplicate++
		default:
			stats.Failed++
		}
		if cfg.Verbose {
			log.Info(ctx, "pick submitted",
				logger.Int("pick", p.Number),
				logger.String("player", p.Player),
				logger.String("outcome", outcome))
		}
	}

	if cfg.Refresh {
		t, err := c.refresh(ctx)
		if err != nil {
			log.Warn(ctx, "refresh request failed", logger.Error(err))
		} else {
			log.Info(ctx, "refresh requested", logger.String("status", t.Status), logger.String("jobID", t.JobID))
		}
	}

	if cfg.Settle > 0 {
		if err := sleep(ctx, cfg.Settle); err != nil {
			return stats, err
		}
	}

	rows, err := c.leaderboard(ctx, cfg.TopN)
	if err != nil {
		return stats, fmt.Errorf("leaderboard: %w", err)
	}
	stats.Standings = rows
	if len(rows) > 0 {
		stats.Leader = rows[0].Participant
	}

	cm, err := c.commentary(ctx)
	if err != nil {
		log.Warn(ctx, "commentary unavailable", logger.Error(err))
	} else {
		stats.Commentary = cm.Lines
	}

	stats.Duration = time.Since(start)
	report(ctx, log, stats)
	return stats, nil
}

func readPicks(path string) ([]model.Pick, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer func() { _ = f.Close() }()

	picks, err := source.ParseResultsCSV(f)
	if err != nil {
		return nil, err
	}
	if len(picks) == 0 {
		return nil, ErrEmptyResults
	}
	return picks, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func report(ctx context.Context, log logger.Logger, s *Stats) {
	log.Info(ctx, "replay finished",
		logger.Int("picks", s.Picks),
		logger.Int("accepted", s.Accepted),
		logger.Int("duplicate", s.Duplicate),
		logger.Int("failed", s.Failed),
		logger.String("leader", s.Leader),
		logger.Duration("took", s.Duration))
	for _, row := range s.Standings {
		log.Info(ctx, "standing",
			logger.Int("rank", row.Rank),
			logger.String("participant", row.Participant),
			logger.Int("score", row.Score),
			logger.Int("correct", row.Correct))
	}
	if len(s.Commentary) > 0 {
		log.Info(ctx, "commentary", logger.Strings("lines", s.Commentary))
	}
}
