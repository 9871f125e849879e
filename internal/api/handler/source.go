package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/memeforge/internal/source"
)

// SourceInspector lists registered sources and their cache state.
type SourceInspector interface {
	SourceLister
	Stats() map[string]source.Stats
}

// SourceHandler handles source listing endpoints.
type SourceHandler struct {
	forge SourceInspector
}

// NewSourceHandler creates a new source handler.
func NewSourceHandler(forge SourceInspector) *SourceHandler {
	return &SourceHandler{forge: forge}
}

// ListSources handles GET /api/v1/sources.
func (h *SourceHandler) ListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": h.forge.Sources(),
		"default": h.forge.DefaultSource(),
		"stats":   h.forge.Stats(),
	})
}
