// Package source defines the meme source handler contract and the cache, dedup, and
// fan-out machinery shared by every provider package under it.
package source

import (
	"context"

	"github.com/timmy/memeforge/internal/domain"
)

// Handler fetches memes from one upstream provider.
type Handler interface {
	// Name returns the stable name the handler is registered under.
	Name() string

	// Fetch returns a shuffled batch of canonical items.
	// Parameters:
	//   - ctx: context for cancellation while waiting on the rate limiter.
	//   - req: request; only Limit is consulted by handlers.
	// Returns:
	//   - []domain.MemeItem: fresh items, the stale cache, or an empty slice.
	//   - error: non-nil only when ctx is done. Upstream failures degrade to fewer items.
	Fetch(ctx context.Context, req domain.FetchRequest) ([]domain.MemeItem, error)
}

// Warmer is implemented by handlers that can refresh their cache without emitting items.
type Warmer interface {
	// Warm refetches upstream and replaces the cache when the result is non-empty.
	// Returns the number of items now cached by this refresh.
	Warm(ctx context.Context) (int, error)
}

// StatsReporter is implemented by handlers that expose their cache state.
type StatsReporter interface {
	Stats() Stats
}
