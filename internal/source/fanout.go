package source

import (
	"context"
	"sync"
	"time"

	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
)

// Endpoint is one upstream call contributing items to a batch.
type Endpoint struct {
	// Name identifies the endpoint in logs, usually its URL.
	Name    string
	Collect func(ctx context.Context) ([]domain.MemeItem, error)
}

// FanOut calls every endpoint concurrently and merges the results in endpoint order.
// A failing endpoint is logged and contributes nothing; the others are unaffected.
func FanOut(ctx context.Context, endpoints []Endpoint) []domain.MemeItem {
	results := make([][]domain.MemeItem, len(endpoints))

	var wg sync.WaitGroup
	for i, ep := range endpoints {
		wg.Add(1)
		go func(i int, ep Endpoint) {
			defer wg.Done()
			results[i] = Collect(ctx, ep)
		}(i, ep)
	}
	wg.Wait()

	var merged []domain.MemeItem
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

// FirstNonEmpty calls endpoints in order and returns the first non-empty result.
// Failures are logged and the next endpoint is tried.
func FirstNonEmpty(ctx context.Context, endpoints []Endpoint) []domain.MemeItem {
	for _, ep := range endpoints {
		if ctx.Err() != nil {
			return nil
		}
		if items := Collect(ctx, ep); len(items) > 0 {
			return items
		}
	}
	return nil
}

// Collect calls a single endpoint, logging and discarding its error.
func Collect(ctx context.Context, ep Endpoint) []domain.MemeItem {
	start := time.Now()
	items, err := ep.Collect(ctx)
	if err != nil {
		logger.FromContext(ctx).WithFields(logger.Fields{
			logger.FieldEndpoint:   ep.Name,
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
		}).WithError(err).Warn("Upstream endpoint failed")
		return nil
	}

	logger.With(logger.Fields{logger.FieldEndpoint: ep.Name}).
		WithDuration(start).
		WithCount(len(items)).
		Debug(ctx, "Upstream endpoint returned")
	return items
}
