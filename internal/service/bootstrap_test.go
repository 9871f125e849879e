package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/logger"
)

func TestNewForgeFromConfigRegistersEnabledSources(t *testing.T) {
	cfg := &config.Config{}
	cfg.RateLimit.RPS = 1
	cfg.Forge.DefaultSource = "reddit"
	cfg.Sources.Reddit.Enabled = true
	cfg.Sources.MultiAPI.Enabled = true

	forge := NewForgeFromConfig(cfg, logger.Discard())

	assert.Equal(t, []string{"multiapi", "reddit"}, forge.Sources())
	assert.Equal(t, "reddit", forge.DefaultSource())
}
