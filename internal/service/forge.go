package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/memeforge/internal/discord"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/filter"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/source"
)

// DefaultSource is used when neither the request nor the configuration names a source.
const DefaultSource = "multiapi"

var (
	// ErrUnknownSource is returned when a request names a source that is not registered.
	ErrUnknownSource = errors.New("unknown meme source")
	// ErrNoMeme is available to callers that treat an empty FetchOne as an error.
	ErrNoMeme = errors.New("no meme available")
)

// ForgeConfig holds configuration for the Forge.
type ForgeConfig struct {
	DefaultSource string
}

// Forge is the aggregator facade: it routes a request to a source handler, filters and
// trims the result, and projects it into the requested output format.
type Forge struct {
	mu            sync.RWMutex
	handlers      map[string]source.Handler
	order         []string
	defaultSource string
	logger        *logger.Logger
}

// NewForge creates a Forge with no handlers registered.
// Parameters:
//   - cfg: forge configuration; nil or an empty default source uses DefaultSource.
//   - log: logger instance; nil uses the default logger.
// Returns:
//   - *Forge: facade ready for Register.
func NewForge(cfg *ForgeConfig, log *logger.Logger) *Forge {
	def := DefaultSource
	if cfg != nil && cfg.DefaultSource != "" {
		def = cfg.DefaultSource
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Forge{
		handlers:      make(map[string]source.Handler),
		defaultSource: def,
		logger:        log,
	}
}

// Register adds a handler under its name. A handler with the same name is replaced
// and keeps its original position.
func (f *Forge) Register(h source.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := h.Name()
	if _, exists := f.handlers[name]; !exists {
		f.order = append(f.order, name)
	}
	f.handlers[name] = h
	f.logger.WithField(logger.FieldSource, name).Info("Registered meme source")
}

// Sources returns registered handler names in registration order.
func (f *Forge) Sources() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]string(nil), f.order...)
}

// DefaultSource returns the name used when a request leaves Source empty.
func (f *Forge) DefaultSource() string {
	return f.defaultSource
}

// Handler resolves a handler by name; an empty name selects the default source.
func (f *Forge) Handler(name string) (source.Handler, error) {
	if name == "" {
		name = f.defaultSource
	}
	f.mu.RLock()
	h, ok := f.handlers[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}
	return h, nil
}

// Result is the outcome of Fetch. Exactly one of Items and Embeds is set, by Format.
type Result struct {
	Source string              `json:"source"`
	Format domain.OutputFormat `json:"format"`
	Items  []domain.MemeItem   `json:"items,omitempty"`
	Embeds []domain.Embed      `json:"embeds,omitempty"`
}

// Len returns the number of memes in the result.
func (r *Result) Len() int {
	if r.Format == domain.FormatDiscordEmbed {
		return len(r.Embeds)
	}
	return len(r.Items)
}

// Single is the outcome of FetchOne.
type Single struct {
	Source string              `json:"source"`
	Format domain.OutputFormat `json:"format"`
	Item   *domain.MemeItem    `json:"item,omitempty"`
	Embed  *domain.Embed       `json:"embed,omitempty"`
}

// Fetch returns memes for req.
// Parameters:
//   - ctx: context for cancellation.
//   - req: fetch request; Source empty selects the default source.
// Returns:
//   - *Result: filtered, trimmed, and formatted memes; may be empty.
//   - error: ErrUnknownSource for an unregistered source, or the context error.
func (f *Forge) Fetch(ctx context.Context, req domain.FetchRequest) (*Result, error) {
	h, err := f.Handler(req.Source)
	if err != nil {
		return nil, err
	}
	ctx = logger.SetSource(ctx, h.Name())

	start := time.Now()
	items, err := h.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", h.Name(), err)
	}
	fetched := len(items)

	items = filter.UniqueMedia(items)
	items = filter.Apply(items, req.Criteria)
	items = filter.Paginate(items, req.Limit)

	res := &Result{Source: h.Name(), Format: domain.FormatJSON}
	if req.Format == domain.FormatDiscordEmbed {
		res.Format = domain.FormatDiscordEmbed
		res.Embeds = discord.ToEmbeds(items)
	} else {
		res.Items = items
	}

	logger.With(logger.Fields{"fetched": fetched}).
		WithCount(res.Len()).
		WithDuration(start).
		Info(ctx, "Memes served")
	return res, nil
}

// FetchOne returns a single meme, or nil when none is available.
func (f *Forge) FetchOne(ctx context.Context, req domain.FetchRequest) (*Single, error) {
	req.Limit = 1
	res, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Len() == 0 {
		return nil, nil
	}

	one := &Single{Source: res.Source, Format: res.Format}
	if res.Format == domain.FormatDiscordEmbed {
		one.Embed = &res.Embeds[0]
	} else {
		one.Item = &res.Items[0]
	}
	return one, nil
}

// WarmResult reports the cache refresh of one source.
type WarmResult struct {
	Source string
	Cached int
	Err    error
}

// Warm refreshes the cache of every registered handler that supports it.
// Handlers are refreshed concurrently; failures are reported, not returned.
func (f *Forge) Warm(ctx context.Context) []WarmResult {
	f.mu.RLock()
	var warmers []source.Handler
	for _, name := range f.order {
		if _, ok := f.handlers[name].(source.Warmer); ok {
			warmers = append(warmers, f.handlers[name])
		}
	}
	f.mu.RUnlock()

	results := make([]WarmResult, len(warmers))
	var wg sync.WaitGroup
	for i, h := range warmers {
		wg.Add(1)
		go func(i int, h source.Handler) {
			defer wg.Done()
			n, err := h.(source.Warmer).Warm(ctx)
			results[i] = WarmResult{Source: h.Name(), Cached: n, Err: err}
		}(i, h)
	}
	wg.Wait()

	for _, r := range results {
		entry := f.logger.WithFields(logger.Fields{logger.FieldSource: r.Source, logger.FieldCount: r.Cached})
		if r.Err != nil {
			entry.WithError(r.Err).Warn("Cache warm-up failed")
			continue
		}
		entry.Debug("Cache warmed")
	}
	return results
}

// Stats returns the cache state of every handler that reports it, keyed by source name.
func (f *Forge) Stats() map[string]source.Stats {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make(map[string]source.Stats)
	for name, h := range f.handlers {
		if r, ok := h.(source.StatsReporter); ok {
			out[name] = r.Stats()
		}
	}
	return out
}
