package handler

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/domain"
)

// MaxLimit caps the number of memes one request may ask for.
const MaxLimit = 100

// memeQuery is the query string accepted by the meme endpoints.
type memeQuery struct {
	Source     string `form:"source"`
	NSFW       *bool  `form:"nsfw"`
	MinUpvotes int    `form:"min_upvotes" binding:"min=0"`
	MediaType  string `form:"media_type"`
	Subreddits string `form:"subreddits"`
	Limit      int    `form:"limit" binding:"min=0"`
	Format     string `form:"format"`
	Language   string `form:"language"`
	Cache      *bool  `form:"cache"`
}

// bindFetchRequest parses the query string into a FetchRequest.
// Limits above MaxLimit are clamped.
func bindFetchRequest(c *gin.Context) (domain.FetchRequest, error) {
	var q memeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return domain.FetchRequest{}, err
	}

	kind, ok := domain.ParseMediaKind(q.MediaType)
	if !ok {
		return domain.FetchRequest{}, fmt.Errorf("unknown media_type %q", q.MediaType)
	}
	format, ok := domain.ParseOutputFormat(q.Format)
	if !ok {
		return domain.FetchRequest{}, fmt.Errorf("unknown format %q", q.Format)
	}
	lang, ok := domain.ParseLanguage(q.Language)
	if !ok {
		return domain.FetchRequest{}, fmt.Errorf("unknown language %q", q.Language)
	}

	return domain.FetchRequest{
		Criteria: domain.Criteria{
			AllowExplicit: q.NSFW,
			MinUpvotes:    q.MinUpvotes,
			MediaKind:     kind,
			Subreddits:    splitList(q.Subreddits),
		},
		Limit:    min(q.Limit, MaxLimit),
		UseCache: q.Cache,
		Format:   format,
		Language: lang,
		Source:   strings.TrimSpace(q.Source),
	}, nil
}

// splitList splits a comma-separated list, dropping blank entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
