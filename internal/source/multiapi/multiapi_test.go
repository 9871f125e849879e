package multiapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/ratelimit"
	"github.com/timmy/memeforge/internal/source/memeapi"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type upstream struct {
	srv       *httptest.Server
	wantCalls int32
	// wantFailAfter makes want.cat fail from this call number on; zero never fails.
	wantFailAfter int32
	downSubs      map[string]bool
}

func newUpstream(t *testing.T, wantFailAfter int32, downSubs ...string) *upstream {
	t.Helper()
	u := &upstream{wantFailAfter: wantFailAfter, downSubs: make(map[string]bool)}
	for _, s := range downSubs {
		u.downSubs[s] = true
	}
	u.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/memes":
			n := atomic.AddInt32(&u.wantCalls, 1)
			if u.wantFailAfter > 0 && n >= u.wantFailAfter {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"url": fmt.Sprintf("https://api.want.cat/img/%d.jpg", n)})
		case strings.HasPrefix(r.URL.Path, "/gimme/"):
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			sub := parts[1]
			if u.downSubs[sub] {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			posts := []memeapi.Post{
				{PostLink: "https://redd.it/" + sub + "1", Subreddit: sub, URL: "https://i.redd.it/" + sub + "1.png"},
				{PostLink: "https://redd.it/" + sub + "2", Subreddit: sub, URL: "https://i.redd.it/" + sub + "2.gif"},
				{PostLink: "https://redd.it/" + sub + "v", Subreddit: sub, URL: "https://v.redd.it/" + sub + "v"},
			}
			_ = json.NewEncoder(w).Encode(memeapi.Response{Count: len(posts), Memes: posts})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) WantCalls() int {
	return int(atomic.LoadInt32(&u.wantCalls))
}

func testConfig(baseURL string, polls int) config.MultiAPIConfig {
	return config.MultiAPIConfig{
		Enabled:        true,
		WantURL:        baseURL + "/api/memes",
		WantPolls:      polls,
		PollInterval:   time.Millisecond,
		WantTimeout:    time.Second,
		MemeAPIBaseURL: baseURL,
		Subreddits:     []string{"MAAU", "yo_elvr", "LatinoPeopleTwitter"},
		PerSubreddit:   20,
		MemeAPITimeout: time.Second,
		Cache: config.CacheConfig{
			FreshFor:     3 * time.Minute,
			MinCached:    10,
			MaxRecent:    150,
			DefaultLimit: 20,
		},
	}
}

func newTestHandler(cfg config.MultiAPIConfig) *Handler {
	client := httpclient.New(&httpclient.Config{Timeout: 2 * time.Second, Retries: 0, BackoffStep: time.Millisecond})
	return New(cfg, client, ratelimit.Unlimited{}, WithClock(func() time.Time { return fixedNow }))
}

func countBy(items []domain.MemeItem, provider string) int {
	n := 0
	for _, it := range items {
		if it.Provider == provider {
			n++
		}
	}
	return n
}

func TestFetchMergesAllEndpoints(t *testing.T) {
	up := newUpstream(t, 0)
	items, err := newTestHandler(testConfig(up.srv.URL, 4)).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	// 4 want.cat images plus 2 non-video posts from each of 3 subreddits
	assert.Len(t, items, 10)
	assert.Equal(t, 4, countBy(items, WantProvider))
	assert.Equal(t, 6, countBy(items, memeapi.Provider))
	assert.Equal(t, 4, up.WantCalls())
}

func TestFetchWantItemShape(t *testing.T) {
	up := newUpstream(t, 0)
	items, err := newTestHandler(testConfig(up.srv.URL, 1)).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	var want *domain.MemeItem
	for i := range items {
		if items[i].Provider == WantProvider {
			want = &items[i]
		}
	}
	require.NotNil(t, want)
	assert.Equal(t, fmt.Sprintf("want_%d_0_1.jpg", fixedNow.UnixMilli()), want.ID)
	assert.Equal(t, "Meme", want.Title)
	assert.Equal(t, "want.cat", want.Author)
	assert.Equal(t, "https://want.cat", want.SourcePageURL)
	assert.Equal(t, domain.MediaKindImage, want.MediaKind)
	assert.False(t, want.IsExplicit)
}

func TestFetchIsolatesFailingEndpoints(t *testing.T) {
	up := newUpstream(t, 1, "yo_elvr")
	items, err := newTestHandler(testConfig(up.srv.URL, 5)).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	assert.Zero(t, countBy(items, WantProvider))
	assert.Len(t, items, 4)
	for _, it := range items {
		assert.NotEqual(t, "yo_elvr", it.Subreddit)
	}
}

func TestFetchFailedPollEndsPolling(t *testing.T) {
	up := newUpstream(t, 3)
	items, err := newTestHandler(testConfig(up.srv.URL, 10)).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	assert.Equal(t, 2, countBy(items, WantProvider))
	assert.Equal(t, 3, up.WantCalls())
}

func TestFetchPacesWantPolls(t *testing.T) {
	up := newUpstream(t, 0)
	cfg := testConfig(up.srv.URL, 4)
	cfg.PollInterval = 40 * time.Millisecond

	start := time.Now()
	_, err := newTestHandler(cfg).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 120*time.Millisecond)
}

func TestFetchDedupAcrossCalls(t *testing.T) {
	up := newUpstream(t, 0)
	cfg := testConfig(up.srv.URL, 0)
	h := newTestHandler(cfg)

	first, err := h.Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)
	require.Len(t, first, 6)

	// six items do not exceed MinCached, so the second call goes upstream and sees only repeats
	second, err := h.Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)
	assert.Empty(t, second)
}
