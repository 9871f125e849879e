package memeapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/ratelimit"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type route struct {
	status int
	posts  []Post
}

// fakeAPI serves a fixed route table and records the order paths were requested in.
type fakeAPI struct {
	srv    *httptest.Server
	mu     sync.Mutex
	routes map[string]route
	hits   []string
}

func newFakeAPI(t *testing.T, routes map[string]route) *fakeAPI {
	t.Helper()
	f := &fakeAPI{routes: routes}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.URL.Path)
		rt, ok := f.routes[r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if rt.status != 0 {
			w.WriteHeader(rt.status)
			return
		}
		_ = json.NewEncoder(w).Encode(Response{Count: len(rt.posts), Memes: rt.posts})
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) Hits() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.hits...)
}

func testConfig(baseURL string) config.MemeAPIConfig {
	return config.MemeAPIConfig{
		Enabled:   true,
		BaseURL:   baseURL,
		Endpoints: []string{"/gimme/50", "/gimme/memes/50", "/gimme/dankmemes/50"},
		Timeout:   time.Second,
		Cache: config.CacheConfig{
			FreshFor:     5 * time.Minute,
			MinCached:    10,
			MaxRecent:    200,
			DefaultLimit: 20,
		},
	}
}

func newTestHandler(baseURL string) *Handler {
	client := httpclient.New(&httpclient.Config{Timeout: 2 * time.Second, Retries: 0, BackoffStep: time.Millisecond})
	return New(testConfig(baseURL), client, ratelimit.Unlimited{}, WithClock(func() time.Time { return fixedNow }))
}

func post(id, url string) Post {
	return Post{
		PostLink:  "https://redd.it/" + id,
		Subreddit: "dankmemes",
		Title:     "title " + id,
		URL:       url,
		Author:    "author",
		Ups:       42,
	}
}

func TestFetchFailsOverInOrder(t *testing.T) {
	api := newFakeAPI(t, map[string]route{
		"/gimme/50":           {status: http.StatusInternalServerError},
		"/gimme/memes/50":     {posts: []Post{{URL: "https://x.test/n.png", NSFW: true}}},
		"/gimme/dankmemes/50": {posts: []Post{post("a1", "https://i.redd.it/a1.jpg"), post("a2", "https://i.redd.it/a2")}},
	})

	items, err := newTestHandler(api.srv.URL).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	assert.Len(t, items, 2)
	assert.Equal(t, []string{"/gimme/50", "/gimme/memes/50", "/gimme/dankmemes/50"}, api.Hits())
}

func TestFetchStopsAtFirstProductiveEndpoint(t *testing.T) {
	api := newFakeAPI(t, map[string]route{
		"/gimme/50":       {posts: []Post{post("b1", "https://x.test/b1.png")}},
		"/gimme/memes/50": {posts: []Post{post("b2", "https://x.test/b2.png")}},
	})

	items, err := newTestHandler(api.srv.URL).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "b1", items[0].ID)
	assert.Equal(t, []string{"/gimme/50"}, api.Hits())
}

func TestFetchAllEndpointsDown(t *testing.T) {
	api := newFakeAPI(t, map[string]route{})

	items, err := newTestHandler(api.srv.URL).Fetch(context.Background(), domain.FetchRequest{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Len(t, api.Hits(), 3)
}

func TestMapPosts(t *testing.T) {
	posts := []Post{
		post("img", "https://i.imgur.com/img.png"),
		{URL: "https://i.redd.it/bare"},
		post("gif", "https://i.imgur.com/gif.gif"),
		post("vid", "https://v.redd.it/vid"),
		post("mp4", "https://x.test/clip.mp4"),
		{PostLink: "https://redd.it/nsfw", URL: "https://x.test/n.png", NSFW: true},
		{PostLink: "https://redd.it/nourl"},
		post("html", "https://x.test/page.html"),
	}

	items := MapPosts(posts, MapOptions{DefaultSubreddit: "memes", Now: fixedNow})
	require.Len(t, items, 3)

	img := items[0]
	assert.Equal(t, "img", img.ID)
	assert.Equal(t, domain.MediaKindImage, img.MediaKind)
	assert.Equal(t, "https://redd.it/img", img.SourcePageURL)
	assert.Equal(t, 42, img.Upvotes)
	assert.Equal(t, fixedNow.UnixMilli(), img.CreatedAtMs)
	assert.Equal(t, Provider, img.Provider)

	bare := items[1]
	assert.Equal(t, "meme_1709294400000_1", bare.ID)
	assert.Equal(t, "Meme", bare.Title)
	assert.Equal(t, "unknown", bare.Author)
	assert.Equal(t, "memes", bare.Subreddit)
	assert.Equal(t, "https://reddit.com", bare.SourcePageURL)
	assert.Equal(t, domain.MediaKindImage, bare.MediaKind)

	assert.Equal(t, domain.MediaKindGIF, items[2].MediaKind)
	for _, it := range items {
		assert.False(t, it.IsExplicit)
	}
}

func TestMapPostsWithoutDefaultSubreddit(t *testing.T) {
	items := MapPosts([]Post{{PostLink: "https://redd.it/x", URL: "https://x.test/x.png"}}, MapOptions{Now: fixedNow})
	require.Len(t, items, 1)
	assert.Empty(t, items[0].Subreddit)
}
