package source

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/ratelimit"
)

// PipelineConfig holds the cache and dedup parameters of one handler.
type PipelineConfig struct {
	// Name is the handler name; it doubles as the rate-limit key.
	Name string
	// FreshFor is how long a cached batch is served without refetching.
	FreshFor time.Duration
	// MinCached is the cached batch size that must be exceeded before the cache is served.
	MinCached int
	// MaxRecent bounds the recently-emitted ID window.
	MaxRecent int
	// DefaultLimit applies when a request carries no positive limit.
	DefaultLimit int
}

// CollectFunc gathers one raw batch from upstream. It never fails: unreachable endpoints
// contribute nothing and the batch may be empty.
type CollectFunc func(ctx context.Context) []domain.MemeItem

// Stats describes the cache state of a pipeline.
type Stats struct {
	Cached   int       `json:"cached"`
	CachedAt time.Time `json:"cached_at"`
	Recent   int       `json:"recent"`
	Fresh    bool      `json:"fresh"`
}

// Pipeline implements the fetch cycle shared by all handlers:
// serve a fresh cache, else throttle, collect, replace the cache, drop recently emitted
// IDs, and fall back to the stale cache when upstream returned nothing.
type Pipeline struct {
	cfg       PipelineConfig
	throttler ratelimit.Throttler
	now       func() time.Time

	mu       sync.Mutex
	cached   []domain.MemeItem
	cachedAt time.Time
	recent   *RecentSet
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock replaces the time source used for cache freshness.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// NewPipeline creates a Pipeline.
// Parameters:
//   - cfg: cache parameters.
//   - throttler: rate limiter consulted before every upstream collect; nil disables throttling.
//   - opts: optional overrides.
// Returns:
//   - *Pipeline: pipeline with an empty cache.
func NewPipeline(cfg PipelineConfig, throttler ratelimit.Throttler, opts ...PipelineOption) *Pipeline {
	if throttler == nil {
		throttler = ratelimit.Unlimited{}
	}
	p := &Pipeline{
		cfg:       cfg,
		throttler: throttler,
		now:       time.Now,
		recent:    NewRecentSet(cfg.MaxRecent),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one fetch cycle.
// Parameters:
//   - ctx: context for cancellation while throttled.
//   - req: request; only Limit is consulted.
//   - collect: upstream collector.
// Returns:
//   - []domain.MemeItem: cached, fresh, or stale items; never nil.
//   - error: the context error if ctx is done while throttled.
func (p *Pipeline) Run(ctx context.Context, req domain.FetchRequest, collect CollectFunc) ([]domain.MemeItem, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = p.cfg.DefaultLimit
	}

	if items, ok := p.serveFresh(limit); ok {
		logger.With(logger.Fields{logger.FieldSource: p.cfg.Name}).
			WithCount(len(items)).
			WithStatus("cache_hit").
			Debug(ctx, "Serving cached memes")
		return items, nil
	}

	if err := p.throttler.Throttle(ctx, p.cfg.Name); err != nil {
		return nil, err
	}

	start := time.Now()
	batch := collect(ctx)

	fresh, stale := p.absorb(batch)

	entry := logger.With(logger.Fields{logger.FieldSource: p.cfg.Name, "collected": len(batch)}).WithDuration(start)
	switch {
	case len(fresh) > 0:
		entry.WithCount(len(fresh)).WithStatus("fresh").Info(ctx, "Fetched new memes")
		return lo.Shuffle(fresh), nil
	case len(stale) > 0:
		stale = lo.Shuffle(stale)
		if len(stale) > limit {
			stale = stale[:limit]
		}
		entry.WithCount(len(stale)).WithStatus("stale").Warn(ctx, "Upstream returned nothing, serving stale cache")
		return stale, nil
	default:
		entry.WithCount(0).WithStatus("empty").Warn(ctx, "No memes available")
		return []domain.MemeItem{}, nil
	}
}

// Refresh collects a new batch and replaces the cache without touching the recent window.
// Returns the size of the new batch; an empty batch leaves the previous cache in place.
func (p *Pipeline) Refresh(ctx context.Context, collect CollectFunc) (int, error) {
	if err := p.throttler.Throttle(ctx, p.cfg.Name); err != nil {
		return 0, err
	}
	batch := collect(ctx)
	if len(batch) == 0 {
		return 0, nil
	}

	p.mu.Lock()
	p.cached = append([]domain.MemeItem(nil), batch...)
	p.cachedAt = p.now()
	p.mu.Unlock()
	return len(batch), nil
}

// Stats returns a snapshot of the cache state.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Cached:   len(p.cached),
		CachedAt: p.cachedAt,
		Recent:   p.recent.Len(),
		Fresh:    p.isFresh(),
	}
}

func (p *Pipeline) serveFresh(limit int) ([]domain.MemeItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.isFresh() {
		return nil, false
	}
	items := lo.Shuffle(append([]domain.MemeItem(nil), p.cached...))
	if len(items) > limit {
		items = items[:limit]
	}
	return items, true
}

// isFresh must be called with mu held.
func (p *Pipeline) isFresh() bool {
	return len(p.cached) > p.cfg.MinCached && p.now().Sub(p.cachedAt) < p.cfg.FreshFor
}

// absorb replaces the cache with a non-empty batch and filters it against the recent window.
// Both steps happen under one lock so concurrent runs never emit the same ID twice.
// When upstream produced nothing at all, a copy of the previous cache is returned as the
// stale fallback. A batch made only of recently emitted IDs yields neither.
func (p *Pipeline) absorb(batch []domain.MemeItem) (fresh, stale []domain.MemeItem) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(batch) > 0 {
		p.cached = append([]domain.MemeItem(nil), batch...)
		p.cachedAt = p.now()
	}

	for _, item := range batch {
		if p.recent.Contains(item.ID) {
			continue
		}
		p.recent.Add(item.ID)
		fresh = append(fresh, item)
	}

	if len(batch) == 0 && len(p.cached) > 0 {
		stale = append([]domain.MemeItem(nil), p.cached...)
	}
	return fresh, stale
}
