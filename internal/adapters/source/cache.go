package source

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/clparker78/straight-razor-draft/pkg/logger"
	"github.com/clparker78/straight-razor-draft/pkg/metrics"
)

// CacheOption configures a Cached source.
type CacheOption func(*cacheConfig)

type cacheConfig struct {
	ttl     time.Duration
	live    bool
	timeout time.Duration
	log     logger.Logger
	now     func() time.Time
}

// WithTTL keeps a successful load for d. Zero keeps it until Clear.
func WithTTL(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		if d >= 0 {
			c.ttl = d
		}
	}
}

// WithoutCache loads on every fetch.
func WithoutCache() CacheOption {
	return func(c *cacheConfig) { c.live = true }
}

// WithLoadTimeout bounds each underlying load.
func WithLoadTimeout(d time.Duration) CacheOption {
	return func(c *cacheConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCacheLogger sets the logger used for load failures.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *cacheConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *cacheConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Cached wraps a Loader with a TTL cache. Concurrent misses share one load.
// Failed loads are never cached.
type Cached[T any] struct {
	name   string
	loader Loader[T]
	cfg    cacheConfig
	group  singleflight.Group

	mu       sync.RWMutex
	data     T
	loadedAt time.Time
	valid    bool
	last     Outcome[T]
}

// NewCached wraps loader under name, which labels logs and metrics.
func NewCached[T any](name string, loader Loader[T], opts ...CacheOption) *Cached[T] {
	cfg := cacheConfig{
		timeout: 10 * time.Second,
		log:     logger.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Cached[T]{name: name, loader: loader, cfg: cfg}
}

// Name returns the label of this source.
func (c *Cached[T]) Name() string { return c.name }

// Fetch returns cached data when fresh, otherwise loads.
func (c *Cached[T]) Fetch(ctx context.Context) Outcome[T] {
	o, ok := c.fresh()
	if ok {
		metrics.RecordSourceCacheHit(c.name)
	} else {
		v, _, _ := c.group.Do(c.name, func() (interface{}, error) {
			return c.load(ctx), nil
		})
		o = v.(Outcome[T]) //nolint:forcetypeassert // load always returns Outcome[T]
	}

	c.mu.Lock()
	c.last = o
	c.mu.Unlock()
	return o
}

// Clear drops cached data so the next Fetch reloads.
func (c *Cached[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.data = zero
	c.valid = false
	c.loadedAt = time.Time{}
}

// Last returns the outcome of the most recent Fetch, cached or not.
func (c *Cached[T]) Last() Outcome[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

func (c *Cached[T]) fresh() (Outcome[T], bool) {
	if c.cfg.live {
		return Outcome[T]{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.valid {
		return Outcome[T]{}, false
	}
	if c.cfg.ttl > 0 && c.cfg.now().Sub(c.loadedAt) >= c.cfg.ttl {
		return Outcome[T]{}, false
	}
	o := Loaded(c.data, c.loadedAt)
	o.Cached = true
	return o, true
}

func (c *Cached[T]) load(ctx context.Context) Outcome[T] {
	lctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	start := time.Now()
	data, err := c.loader.Load(lctx)
	took := time.Since(start)

	if err != nil {
		metrics.RecordSourceLoad(c.name, string(StatusUnavailable), float64(took.Milliseconds()))
		metrics.RecordErrorByComponent("source_"+c.name, "unavailable")
		c.cfg.log.Warn(ctx, "source unavailable",
			logger.String("source", c.name),
			logger.Duration("took", took),
			logger.Error(err),
		)
		return Unavailable[T](err)
	}

	metrics.RecordSourceLoad(c.name, string(StatusLoaded), float64(took.Milliseconds()))
	c.cfg.log.Debug(ctx, "source loaded",
		logger.String("source", c.name),
		logger.Duration("took", took),
	)

	at := c.cfg.now()
	if !c.cfg.live {
		c.mu.Lock()
		c.data = data
		c.loadedAt = at
		c.valid = true
		c.mu.Unlock()
	}
	return Loaded(data, at)
}
