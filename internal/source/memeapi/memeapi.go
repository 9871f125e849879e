// Package memeapi fetches memes from the meme-api.com gimme endpoints.
package memeapi

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/ratelimit"
	"github.com/timmy/memeforge/internal/source"
)

const (
	Name = "memeapi"
	// Provider tags items with the network the posts come from, not the aggregator.
	Provider = "reddit"

	defaultSubreddit = "memes"
)

// Handler implements source.Handler for meme-api.com.
// Endpoints are tried in order and the first one yielding mapped items wins.
type Handler struct {
	client       httpclient.Getter
	cfg          config.MemeAPIConfig
	pipeline     *source.Pipeline
	pipelineOpts []source.PipelineOption
	now          func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithPipelineOptions passes options through to the handler's cache pipeline.
func WithPipelineOptions(opts ...source.PipelineOption) Option {
	return func(h *Handler) { h.pipelineOpts = append(h.pipelineOpts, opts...) }
}

// WithClock replaces the time source used to stamp items.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// New creates a meme-api handler.
func New(cfg config.MemeAPIConfig, client httpclient.Getter, throttler ratelimit.Throttler, opts ...Option) *Handler {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	h := &Handler{client: client, cfg: cfg, now: time.Now}
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

func (h *Handler) Name() string {
	return Name
}

func (h *Handler) Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.MemeItem, error) {
	ctx = logger.SetSource(ctx, Name)
	return h.pipeline.Run(ctx, req, h.collect)
}

func (h *Handler) Warm(ctx context.Context) (int, error) {
	ctx = logger.SetSource(ctx, Name)
	return h.pipeline.Refresh(ctx, h.collect)
}

func (h *Handler) Stats() source.Stats {
	return h.pipeline.Stats()
}

func (h *Handler) collect(ctx context.Context) []domain.MemeItem {
	endpoints := lo.Map(h.cfg.Endpoints, func(path string, _ int) source.Endpoint {
		return Endpoint(h.client, h.cfg.BaseURL+path, h.cfg.Timeout, MapOptions{
			DefaultSubreddit: defaultSubreddit,
			Now:              h.now(),
		})
	})
	return source.FirstNonEmpty(ctx, endpoints)
}

// Endpoint builds a source.Endpoint that reads one gimme URL and maps its posts.
// A non-positive timeout leaves the client default in place.
func Endpoint(client httpclient.Getter, url string, timeout time.Duration, opts MapOptions) source.Endpoint {
	return source.Endpoint{
		Name: url,
		Collect: func(ctx context.Context) ([]domain.MemeItem, error) {
			var reqOpts []httpclient.Option
			if timeout > 0 {
				reqOpts = append(reqOpts, httpclient.WithTimeout(timeout))
			}
			var resp Response
			if err := client.GetJSON(ctx, url, &resp, reqOpts...); err != nil {
				return nil, err
			}
			return MapPosts(resp.Memes, opts), nil
		},
	}
}
