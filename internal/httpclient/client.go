// Package httpclient is the shared upstream GET client: rotating User-Agent,
// linear retry backoff, and normalized errors.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/memeforge/internal/logger"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultRetries     = 3
	defaultBackoffStep = 3 * time.Second
)

// userAgents is the pool a random client identity is drawn from for every attempt.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
}

// UserAgents returns a copy of the client identity pool.
func UserAgents() []string {
	return append([]string(nil), userAgents...)
}

// Getter is the subset of Client that source handlers depend on.
type Getter interface {
	GetJSON(ctx context.Context, url string, out interface{}, opts ...Option) error
}

// Config holds configuration for the HTTP client.
type Config struct {
	Timeout     time.Duration // per-attempt timeout; zero uses 15s
	Retries     int           // retries after the first attempt; negative uses 3
	BackoffStep time.Duration // retry n waits n*BackoffStep; zero uses 3s
}

// Client performs GET requests against upstream meme providers.
type Client struct {
	client      *resty.Client
	retries     int
	backoffStep time.Duration
}

// New creates a new Client.
// Parameters:
//   - cfg: client configuration; nil uses defaults.
// Returns:
//   - *Client: initialized client.
func New(cfg *Config) *Client {
	if cfg == nil {
		cfg = &Config{Retries: defaultRetries}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = defaultRetries
	}
	step := cfg.BackoffStep
	if step <= 0 {
		step = defaultBackoffStep
	}

	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9,es;q=0.8")
	client.SetHeader("Cache-Control", "no-cache")
	client.SetHeader("Pragma", "no-cache")
	client.SetHeader("Sec-Fetch-Dest", "empty")
	client.SetHeader("Sec-Fetch-Mode", "cors")
	client.SetHeader("Sec-Fetch-Site", "same-origin")

	return &Client{
		client:      client,
		retries:     retries,
		backoffStep: step,
	}
}

type requestOptions struct {
	timeout time.Duration
	retries int
	headers map[string]string
}

// Option customizes a single request.
type Option func(*requestOptions)

// WithTimeout bounds each attempt of this request to d.
func WithTimeout(d time.Duration) Option {
	return func(o *requestOptions) { o.timeout = d }
}

// WithRetries overrides the retry budget for this request.
func WithRetries(n int) Option {
	return func(o *requestOptions) { o.retries = n }
}

// WithHeader sets an extra header on this request.
func WithHeader(key, value string) Option {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// Get fetches url and returns the response body of the first successful attempt.
// Retryable failures (429, 5xx, transport errors) are retried with linear backoff:
// retry n waits n times the backoff step. Other failures return immediately.
// Parameters:
//   - ctx: context for cancellation; cancellation stops retries.
//   - url: absolute URL to fetch.
//   - opts: per-request options.
// Returns:
//   - []byte: response body.
//   - error: *RequestError on upstream failure, or the context error.
func (c *Client) Get(ctx context.Context, url string, opts ...Option) ([]byte, error) {
	o := requestOptions{retries: c.retries}
	for _, opt := range opts {
		opt(&o)
	}
	if o.retries < 0 {
		o.retries = 0
	}

	var lastErr *RequestError
	for attempt := 0; attempt <= o.retries; attempt++ {
		if attempt > 0 {
			logger.FromContext(ctx).WithFields(logger.Fields{
				logger.FieldEndpoint: url,
				logger.FieldAttempt:  attempt + 1,
			}).WithError(lastErr).Warn("Retrying upstream request")

			if err := c.wait(ctx, time.Duration(attempt)*c.backoffStep); err != nil {
				return nil, err
			}
		}

		body, err := c.do(ctx, url, o)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		err.Attempts = attempt + 1
		lastErr = err
		if !err.IsRetryable() {
			break
		}
	}

	return nil, lastErr
}

// GetJSON fetches url and decodes the JSON body into out.
// A body that is not valid JSON is reported as a decode error, not a RequestError.
func (c *Client) GetJSON(ctx context.Context, url string, out interface{}, opts ...Option) error {
	body, err := c.Get(ctx, url, opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", url, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, url string, o requestOptions) ([]byte, *RequestError) {
	attemptCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := c.client.R().
		SetContext(attemptCtx).
		SetHeader("User-Agent", randomUserAgent()).
		SetHeaders(o.headers).
		Get(url)
	if err != nil {
		return nil, transportError(url, err)
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		return nil, statusError(url, status, resp.Body())
	}
	return resp.Body(), nil
}

// wait sleeps for d unless ctx is done first.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func randomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}
