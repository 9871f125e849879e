// Package multiapi merges memes from the want.cat single-image API and several
// subreddit-scoped meme-api.com endpoints.
package multiapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/ratelimit"
	"github.com/timmy/memeforge/internal/source"
	"github.com/timmy/memeforge/internal/source/memeapi"
)

const (
	Name         = "multiapi"
	WantProvider = "want"

	wantAuthor  = "want.cat"
	wantPageURL = "https://want.cat"
)

type wantResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Handler implements source.Handler over want.cat and meme-api.com.
// All endpoints run concurrently; want.cat is polled sequentially within its own endpoint
// because each call returns a single image.
type Handler struct {
	client       httpclient.Getter
	cfg          config.MultiAPIConfig
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

// New creates a multi-API handler.
func New(cfg config.MultiAPIConfig, client httpclient.Getter, throttler ratelimit.Throttler, opts ...Option) *Handler {
	cfg.MemeAPIBaseURL = strings.TrimRight(cfg.MemeAPIBaseURL, "/")
	if cfg.PerSubreddit <= 0 {
		cfg.PerSubreddit = 20
	}

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
	var endpoints []source.Endpoint
	if h.cfg.WantURL != "" && h.cfg.WantPolls > 0 {
		endpoints = append(endpoints, source.Endpoint{Name: h.cfg.WantURL, Collect: h.pollWant})
	}

	opts := memeapi.MapOptions{Now: h.now()}
	endpoints = append(endpoints, lo.Map(h.cfg.Subreddits, func(sub string, _ int) source.Endpoint {
		url := fmt.Sprintf("%s/gimme/%s/%d", h.cfg.MemeAPIBaseURL, sub, h.cfg.PerSubreddit)
		return memeapi.Endpoint(h.client, url, h.cfg.MemeAPITimeout, opts)
	})...)

	return source.FanOut(ctx, endpoints)
}

// pollWant calls want.cat WantPolls times, pausing PollInterval between calls.
// The first failed call ends polling; images gathered before it are kept.
func (h *Handler) pollWant(ctx context.Context) ([]domain.MemeItem, error) {
	var reqOpts []httpclient.Option
	if h.cfg.WantTimeout > 0 {
		reqOpts = append(reqOpts, httpclient.WithTimeout(h.cfg.WantTimeout))
	}

	var items []domain.MemeItem
	for i := 0; i < h.cfg.WantPolls; i++ {
		if i > 0 && !sleep(ctx, h.cfg.PollInterval) {
			break
		}

		var resp wantResponse
		if err := h.client.GetJSON(ctx, h.cfg.WantURL, &resp, reqOpts...); err != nil {
			if len(items) == 0 {
				return nil, err
			}
			logger.FromContext(ctx).WithFields(logger.Fields{
				logger.FieldEndpoint: h.cfg.WantURL,
				logger.FieldCount:    len(items),
			}).WithError(err).Warn("want.cat poll failed, keeping earlier images")
			break
		}
		if resp.URL == "" {
			continue
		}
		items = append(items, h.wantItem(resp, i))
	}
	return items, nil
}

func (h *Handler) wantItem(resp wantResponse, index int) domain.MemeItem {
	nowMs := h.now().UnixMilli()
	return domain.MemeItem{
		ID:            fmt.Sprintf("want_%d_%d_%s", nowMs, index, source.LastPathSegment(resp.URL)),
		Title:         lo.Ternary(resp.Title != "", resp.Title, "Meme"),
		MediaURL:      resp.URL,
		SourcePageURL: wantPageURL,
		Author:        wantAuthor,
		MediaKind:     domain.MediaKindImage,
		CreatedAtMs:   nowMs,
		Provider:      WantProvider,
	}
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
