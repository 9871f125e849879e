package service

import (
	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/httpclient"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/ratelimit"
	"github.com/timmy/memeforge/internal/source/memeapi"
	"github.com/timmy/memeforge/internal/source/multiapi"
	"github.com/timmy/memeforge/internal/source/reddit"
)

// NewForgeFromConfig builds a Forge with every enabled built-in source registered.
// All handlers share one HTTP client and one rate limiter.
// Parameters:
//   - cfg: validated application configuration.
//   - log: logger instance.
// Returns:
//   - *Forge: ready-to-use facade.
func NewForgeFromConfig(cfg *config.Config, log *logger.Logger) *Forge {
	client := httpclient.New(&httpclient.Config{
		Timeout:     cfg.HTTP.Timeout,
		Retries:     cfg.HTTP.Retries,
		BackoffStep: cfg.HTTP.BackoffStep,
	})
	limiter := ratelimit.New(cfg.RateLimit.RPS)

	forge := NewForge(&ForgeConfig{DefaultSource: cfg.Forge.DefaultSource}, log)

	if cfg.Sources.MultiAPI.Enabled {
		forge.Register(multiapi.New(cfg.Sources.MultiAPI, client, limiter))
	}
	if cfg.Sources.Reddit.Enabled {
		forge.Register(reddit.New(cfg.Sources.Reddit, client, limiter))
	}
	if cfg.Sources.MemeAPI.Enabled {
		forge.Register(memeapi.New(cfg.Sources.MemeAPI, client, limiter))
	}

	log.WithFields(logger.Fields{
		"sources":        forge.Sources(),
		"default_source": forge.DefaultSource(),
		"rps":            cfg.RateLimit.RPS,
	}).Info("Meme forge ready")
	return forge
}
