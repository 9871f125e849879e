package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SourceLister is the part of the forge the health and source endpoints read.
type SourceLister interface {
	Sources() []string
	DefaultSource() string
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	sources SourceLister
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(sources SourceLister) *HealthHandler {
	return &HealthHandler{sources: sources}
}

// Health reports ok while at least one meme source is registered.
func (h *HealthHandler) Health(c *gin.Context) {
	n := len(h.sources.Sources())
	if n == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "degraded",
			"sources": 0,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"sources": n,
	})
}
