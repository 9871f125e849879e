package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/service"
)

// Fetcher is the part of the forge the meme endpoints call.
type Fetcher interface {
	Fetch(ctx context.Context, req domain.FetchRequest) (*service.Result, error)
	FetchOne(ctx context.Context, req domain.FetchRequest) (*service.Single, error)
}

// MemeHandler handles meme-related endpoints.
type MemeHandler struct {
	forge Fetcher
}

// NewMemeHandler creates a new meme handler.
// Parameters:
//   - forge: meme aggregator.
// Returns:
//   - *MemeHandler: initialized handler.
func NewMemeHandler(forge Fetcher) *MemeHandler {
	return &MemeHandler{forge: forge}
}

// ListMemes handles GET /api/v1/memes.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) ListMemes(c *gin.Context) {
	req, err := bindFetchRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	result, err := h.forge.Fetch(c.Request.Context(), req)
	if err != nil {
		writeFetchError(c, err)
		return
	}

	body := gin.H{
		"source": result.Source,
		"format": result.Format,
		"count":  result.Len(),
	}
	if result.Format == domain.FormatDiscordEmbed {
		body["embeds"] = nonNil(result.Embeds)
	} else {
		body["memes"] = nonNil(result.Items)
	}
	c.JSON(http.StatusOK, body)
}

// RandomMeme handles GET /api/v1/memes/random.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MemeHandler) RandomMeme(c *gin.Context) {
	req, err := bindFetchRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	one, err := h.forge.FetchOne(c.Request.Context(), req)
	if err != nil {
		writeFetchError(c, err)
		return
	}
	if one == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": service.ErrNoMeme.Error(),
		})
		return
	}

	if one.Embed != nil {
		c.JSON(http.StatusOK, gin.H{"source": one.Source, "format": one.Format, "embed": one.Embed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": one.Source, "format": one.Format, "meme": one.Item})
}

func writeFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownSource):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Request cancelled: " + err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch memes: " + err.Error(),
		})
	}
}

// nonNil keeps empty results encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
