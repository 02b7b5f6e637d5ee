// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/queue"
	"github.com/clparker78/straight-razor-draft/internal/adapters/mq/worker"
	"github.com/clparker78/straight-razor-draft/internal/adapters/repository"
	"github.com/clparker78/straight-razor-draft/internal/adapters/source"
	"github.com/clparker78/straight-razor-draft/internal/config"
	"github.com/clparker78/straight-razor-draft/internal/domain/dedupe"
	"github.com/clparker78/straight-razor-draft/internal/domain/model"
	"github.com/clparker78/straight-razor-draft/internal/domain/scoring"
	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

const (
	defaultShutdownTimeout = 5 * time.Second
	raceLanes              = 5
)

// Service owns the refresh pipeline and answers read queries from the last
// published snapshot.
type Service struct {
	mu sync.RWMutex
	// refreshMu keeps refresh cycles strictly sequential.
	refreshMu sync.Mutex

	// Core components
	store   repository.Store
	results *source.Cached[[]model.Pick]
	entries *source.Cached[[]model.Entry]
	manual  *source.ManualResults
	deduper dedupe.Deduper
	engine  *scoring.Engine
	queue   *queue.InMemoryQueue
	worker  *worker.Worker

	// Configuration
	resultsMode     string
	resultsURL      string
	resultsLoader   source.ResultsLoader
	resultsTTL      time.Duration
	entriesPath     string
	entriesSheet    string
	entriesLoader   source.EntriesLoader
	entriesTTL      time.Duration
	nameColumn      int
	firstPickColumn int
	policy          scoring.Policy
	fetchTimeout    time.Duration
	refreshInterval time.Duration
	queueSize       int
	celebrateTeam   string

	// optErr is reported by Start.
	optErr error

	// State
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig applies every service related setting of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg == nil {
			return
		}
		s.resultsMode = cfg.ResultsMode
		s.resultsURL = cfg.ResultsURL
		s.resultsTTL = cfg.ResultsTTL
		s.entriesPath = cfg.EntriesPath
		s.entriesSheet = cfg.EntriesSheet
		s.entriesTTL = cfg.EntriesTTL
		s.nameColumn = cfg.NameColumn
		s.firstPickColumn = cfg.FirstPickColumn
		p, err := scoring.ParsePolicy(cfg.EntryPolicy)
		if err != nil {
			s.optErr = fmt.Errorf("entry policy: %w", err)
		} else {
			s.policy = p
		}
		WithFetchTimeout(cfg.FetchTimeout)(s)
		WithRefreshInterval(cfg.RefreshInterval)(s)
		WithQueueSize(cfg.QueueSize)(s)
		s.celebrateTeam = cfg.CelebrateTeam
	}
}

// WithResultsMode selects sheet or manual results.
func WithResultsMode(mode string) Option {
	return func(s *Service) {
		s.resultsMode = mode
	}
}

// WithResultsLoader replaces the spreadsheet loader used in sheet mode.
func WithResultsLoader(l source.ResultsLoader) Option {
	return func(s *Service) {
		s.resultsLoader = l
	}
}

// WithEntriesLoader replaces the entries file loader.
func WithEntriesLoader(l source.EntriesLoader) Option {
	return func(s *Service) {
		s.entriesLoader = l
	}
}

// WithCacheTTLs sets how long results and entries are reused.
func WithCacheTTLs(results, entries time.Duration) Option {
	return func(s *Service) {
		if results >= 0 {
			s.resultsTTL = results
		}
		if entries >= 0 {
			s.entriesTTL = entries
		}
	}
}

// WithPolicy sets the entry width policy.
func WithPolicy(p scoring.Policy) Option {
	return func(s *Service) {
		if p != "" {
			s.policy = p
		}
	}
}

// WithFetchTimeout bounds each source load.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

// WithRefreshInterval schedules periodic refreshes. Zero disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithQueueSize sets the maximum number of pending refresh jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCelebrateTeam sets the team whose picks are celebrated.
func WithCelebrateTeam(team string) Option {
	return func(s *Service) {
		s.celebrateTeam = strings.TrimSpace(team)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		resultsMode:     config.ResultsModeManual,
		resultsTTL:      60 * time.Second,
		nameColumn:      2,
		firstPickColumn: 3,
		policy:          scoring.Lenient,
		fetchTimeout:    10 * time.Second,
		refreshInterval: 60 * time.Second,
		queueSize:       8,
		logger:          nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the pipeline, starts the worker and queues the first refresh.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.optErr != nil {
		return s.optErr
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...")

	results, err := s.buildResults()
	if err != nil {
		return err
	}
	s.results = results
	s.entries = s.buildEntries()

	s.store = repository.NewSnapshotStore(ctx)
	s.engine = scoring.NewEngine(scoring.WithPolicy(s.policy))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.worker = worker.New(s.queue, s,
		worker.WithLogger(s.logger.Named("worker")),
	)
	metrics.UpdateQueueCapacity(s.queue.Cap())
	s.stopCh = make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.worker.Run(ctx)
	}()

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.tick(ctx, s.stopCh)
	}

	s.started = true
	s.enqueue(ctx, queue.NewJob(queue.ReasonStartup, false))

	s.logger.Info(ctx, "leaderboard service started",
		logger.String("resultsMode", s.resultsMode),
		logger.String("entryPolicy", string(s.policy)),
		logger.Duration("refreshInterval", s.refreshInterval),
		logger.Int("queueSize", s.queueSize),
	)

	return nil
}

func (s *Service) buildResults() (*source.Cached[[]model.Pick], error) {
	opts := []source.CacheOption{
		source.WithLoadTimeout(s.fetchTimeout),
		source.WithCacheLogger(s.logger.Named("source")),
	}

	switch s.resultsMode {
	case config.ResultsModeManual:
		// Keys are bounded by the ledger itself: one per recorded pick.
		s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		s.manual = source.NewManualResults(s.deduper)
		opts = append(opts, source.WithoutCache())
		return source.NewCached[[]model.Pick]("results", s.manual, opts...), nil
	case config.ResultsModeSheet:
		loader := s.resultsLoader
		if loader == nil {
			loader = source.NewSheetResults(s.resultsURL, source.WithRequestTimeout(s.fetchTimeout))
		}
		opts = append(opts, source.WithTTL(s.resultsTTL))
		return source.NewCached("results", loader, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.resultsMode)
	}
}

func (s *Service) buildEntries() *source.Cached[[]model.Entry] {
	loader := s.entriesLoader
	if loader == nil {
		loader = source.NewFileEntries(s.entriesPath,
			source.WithSheet(s.entriesSheet),
			source.WithColumns(s.nameColumn, s.firstPickColumn),
		)
	}
	return source.NewCached("entries", loader,
		source.WithTTL(s.entriesTTL),
		source.WithLoadTimeout(s.fetchTimeout),
		source.WithCacheLogger(s.logger.Named("source")),
	)
}

func (s *Service) tick(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			s.enqueue(ctx, queue.NewJob(queue.ReasonTick, false))
		}
	}
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping leaderboard service...")

	close(s.stopCh)

	sctx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err := s.worker.Shutdown(sctx); err != nil {
		s.logger.Warn(ctx, "worker did not stop in time", logger.Error(err))
	}
	_ = s.queue.Close()
	s.wg.Wait()

	s.started = false
	s.logger.Info(ctx, "leaderboard service stopped")
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"resultsMode": s.resultsMode,
		"entryPolicy": string(s.policy),
		"picksTotal":  model.FirstRound,
	}

	if !s.started {
		return stats
	}

	snap := s.store.Current(ctx)
	queueLen := s.queue.Len(ctx)

	stats["entryPolicy"] = string(s.engine.Policy())
	stats["picksDone"] = len(snap.Picks)
	stats["participants"] = s.store.Count(ctx)
	stats["rejected"] = len(snap.Rejected)
	stats["seq"] = snap.Seq
	stats["reason"] = snap.Reason
	stats["queueLength"] = queueLen
	stats["queueCapacity"] = s.queue.Cap()
	stats["results"] = sourceState(s.results.Last())
	stats["entries"] = sourceState(s.entries.Last())
	select {
	case <-s.worker.Done():
		stats["workerRunning"] = false
	default:
		stats["workerRunning"] = true
	}
	if s.manual != nil {
		stats["manualPicks"] = s.manual.Len()
		stats["dedupeKeys"] = s.deduper.Size()
	}
	if !snap.At.IsZero() {
		stats["lastRefresh"] = snap.At.UTC().Format(time.RFC3339)
	}

	metrics.UpdateQueueSize(queueLen)

	return stats
}
