package memeapi

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/source"
)

// Response is the meme-api gimme payload.
type Response struct {
	Count int    `json:"count"`
	Memes []Post `json:"memes"`
}

// Post is one meme-api entry.
type Post struct {
	PostLink  string   `json:"postLink"`
	Subreddit string   `json:"subreddit"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	NSFW      bool     `json:"nsfw"`
	Spoiler   bool     `json:"spoiler"`
	Author    string   `json:"author"`
	Ups       int      `json:"ups"`
	Preview   []string `json:"preview"`
}

// MapOptions controls how posts become items.
type MapOptions struct {
	// DefaultSubreddit fills posts that carry none; empty leaves the field unset.
	DefaultSubreddit string
	// Now stamps CreatedAtMs and synthesized IDs.
	Now time.Time
}

// MapPosts converts meme-api posts into items. Explicit posts, videos, posts without a URL,
// and unrecognized media are dropped.
func MapPosts(posts []Post, opts MapOptions) []domain.MemeItem {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	return lo.FilterMap(posts, func(p Post, i int) (domain.MemeItem, bool) {
		return toItem(p, i, opts)
	})
}

func toItem(p Post, index int, opts MapOptions) (domain.MemeItem, bool) {
	if p.URL == "" || p.NSFW {
		return domain.MemeItem{}, false
	}
	kind, ok := source.ClassifyMedia(p.URL, source.RedditImageHost)
	if !ok || kind == domain.MediaKindVideo {
		return domain.MemeItem{}, false
	}

	nowMs := opts.Now.UnixMilli()
	id := ""
	if p.PostLink != "" {
		id = source.LastPathSegment(p.PostLink)
	}
	if id == "" {
		id = fmt.Sprintf("meme_%d_%d", nowMs, index)
	}

	return domain.MemeItem{
		ID:            id,
		Title:         lo.Ternary(p.Title != "", p.Title, "Meme"),
		MediaURL:      p.URL,
		SourcePageURL: lo.Ternary(p.PostLink != "", p.PostLink, "https://reddit.com"),
		Author:        lo.Ternary(p.Author != "", p.Author, "unknown"),
		Subreddit:     lo.Ternary(p.Subreddit != "", p.Subreddit, opts.DefaultSubreddit),
		Upvotes:       max(p.Ups, 0),
		IsSpoiler:     p.Spoiler,
		MediaKind:     kind,
		CreatedAtMs:   nowMs,
		Provider:      Provider,
	}, true
}
