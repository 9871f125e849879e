package reddit

import (
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/source"
)

type listing struct {
	Data struct {
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Data post `json:"data"`
}

type post struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	URL        string  `json:"url"`
	Permalink  string  `json:"permalink"`
	Author     string  `json:"author"`
	Subreddit  string  `json:"subreddit"`
	Ups        int     `json:"ups"`
	Over18     bool    `json:"over_18"`
	Spoiler    bool    `json:"spoiler"`
	IsSelf     bool    `json:"is_self"`
	IsVideo    bool    `json:"is_video"`
	CreatedUTC float64 `json:"created_utc"`
	Media      *struct {
		RedditVideo *redditVideo `json:"reddit_video"`
	} `json:"media"`
	Preview *struct {
		Images []struct {
			Source dimensions `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

type redditVideo struct {
	FallbackURL string `json:"fallback_url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type dimensions struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (p post) video() *redditVideo {
	if p.Media == nil {
		return nil
	}
	return p.Media.RedditVideo
}

func (p post) previewSource() *dimensions {
	if p.Preview == nil || len(p.Preview.Images) == 0 {
		return nil
	}
	return &p.Preview.Images[0].Source
}

// toItem maps a listing post. Self posts, posts without a URL, and links to
// unrecognized media are dropped.
func toItem(p post) (domain.MemeItem, bool) {
	if p.ID == "" || p.URL == "" || p.IsSelf {
		return domain.MemeItem{}, false
	}

	mediaURL := p.URL
	var kind domain.MediaKind
	if v := p.video(); p.IsVideo && v != nil && v.FallbackURL != "" {
		mediaURL = v.FallbackURL
		kind = domain.MediaKindVideo
	} else {
		var ok bool
		if kind, ok = source.ClassifyMedia(mediaURL); !ok {
			return domain.MemeItem{}, false
		}
	}

	item := domain.MemeItem{
		ID:            p.ID,
		Title:         p.Title,
		MediaURL:      mediaURL,
		SourcePageURL: "https://reddit.com" + p.Permalink,
		Author:        p.Author,
		Subreddit:     p.Subreddit,
		Upvotes:       max(p.Ups, 0),
		IsExplicit:    p.Over18,
		IsSpoiler:     p.Spoiler,
		MediaKind:     kind,
		CreatedAtMs:   int64(p.CreatedUTC * 1000),
		Provider:      Provider,
	}

	// dimensions: the video's own, falling back to the first preview image
	if v := p.video(); v != nil {
		item.Width, item.Height = v.Width, v.Height
	}
	if src := p.previewSource(); src != nil {
		if item.Width == 0 {
			item.Width = src.Width
		}
		if item.Height == 0 {
			item.Height = src.Height
		}
	}
	return item, true
}
