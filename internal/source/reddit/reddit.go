// Package reddit fetches memes from Reddit's public listing JSON.
package reddit

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"strings"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/ratelimit"
	"github.com/timmy/memeforge/internal/source"
)

const (
	Name     = "reddit"
	Provider = "reddit"
)

var sorts = []string{"hot", "top"}

// Handler implements source.Handler for Reddit listings.
// Every upstream fetch reads one listing: a random subreddit under a random sort.
type Handler struct {
	client       httpclient.Getter
	cfg          config.RedditConfig
	pipeline     *source.Pipeline
	pipelineOpts []source.PipelineOption
	intn         func(n int) int
}

// Option customizes a Handler.
type Option func(*Handler)

// WithRand replaces the random index source used to pick subreddit and sort.
func WithRand(intn func(n int) int) Option {
	return func(h *Handler) { h.intn = intn }
}

// WithPipelineOptions passes options through to the handler's cache pipeline.
func WithPipelineOptions(opts ...source.PipelineOption) Option {
	return func(h *Handler) { h.pipelineOpts = append(h.pipelineOpts, opts...) }
}

// New creates a Reddit handler.
// Parameters:
//   - cfg: reddit source configuration.
//   - client: HTTP client used for listing requests.
//   - throttler: shared rate limiter; requests are keyed by Name.
//   - opts: optional overrides.
// Returns:
//   - *Handler: handler with an empty cache.
func New(cfg config.RedditConfig, client httpclient.Getter, throttler ratelimit.Throttler, opts ...Option) *Handler {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	h := &Handler{
		client: client,
		cfg:    cfg,
		intn:   rand.Intn,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.pipeline = source.NewPipeline(source.PipelineConfig{
		Name:         Name,
		FreshFor:     cfg.Cache.FreshFor,
		MinCached:    cfg.Cache.MinCached,
		MaxRecent:    cfg.Cache.MaxRecent,
		DefaultLimit: cfg.Cache.DefaultLimit,
	}, throttler, h.pipelineOpts...)
	return h
}

// Name returns the handler name.
func (h *Handler) Name() string {
	return Name
}

// Fetch returns a shuffled batch of Reddit memes.
func (h *Handler) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.MemeItem, error) {
	ctx = logger.SetSource(ctx, Name)
	return h.pipeline.Run(ctx, req, h.collect)
}

// Warm refreshes the cache.
func (h *Handler) Warm(ctx context.Context) (int, error) {
	ctx = logger.SetSource(ctx, Name)
	return h.pipeline.Refresh(ctx, h.collect)
}

// Stats returns the cache state.
func (h *Handler) Stats() source.Stats {
	return h.pipeline.Stats()
}

func (h *Handler) collect(ctx context.Context) []domain.MemeItem {
	if len(h.cfg.Subreddits) == 0 {
		return nil
	}
	sub := h.cfg.Subreddits[h.intn(len(h.cfg.Subreddits))]
	sort := sorts[h.intn(len(sorts))]
	endpoint := h.listingURL(sub, sort)

	return source.Collect(ctx, source.Endpoint{
		Name: endpoint,
		Collect: func(ctx context.Context) ([]domain.MemeItem, error) {
			var resp listing
			if err := h.client.GetJSON(ctx, endpoint, &resp); err != nil {
				return nil, fmt.Errorf("failed to fetch r/%s: %w", sub, err)
			}
			return lo.FilterMap(resp.Data.Children, func(c child, _ int) (domain.MemeItem, bool) {
				return toItem(c.Data)
			}), nil
		},
	})
}

func (h *Handler) listingURL(sub, sort string) string {
	u := fmt.Sprintf("%s/r/%s/%s.json?limit=%d", h.cfg.BaseURL, url.PathEscape(sub), sort, h.cfg.PageSize)
	if sort == "top" {
		u += "&t=week"
	}
	return u
}
