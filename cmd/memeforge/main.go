// Command memeforge fetches memes once and prints them as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/timmy/memeforge/internal/config"
	"github.com/timmy/memeforge/internal/domain"
	"github.com/timmy/memeforge/internal/logger"
	"github.com/timmy/memeforge/internal/service"
)

func main() {
	sourceName := flag.String("source", "", "Meme source (reddit, memeapi, multiapi); empty uses the configured default")
	limit := flag.Int("limit", 10, "Maximum number of memes")
	nsfw := flag.String("nsfw", "", "Allow explicit memes: true or false; empty keeps provider output")
	minUpvotes := flag.Int("min-upvotes", 0, "Minimum upvote count")
	mediaType := flag.String("media-type", "any", "Media type: image, gif, video, any")
	subreddits := flag.String("subreddits", "", "Comma-separated subreddit allow-list")
	format := flag.String("format", "json", "Output format: json or discord-embed")
	language := flag.String("language", "all", "Language hint: es, en, all")
	one := flag.Bool("one", false, "Fetch a single random meme")
	verbose := flag.Bool("v", false, "Log at debug level")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	// Logs go to stderr so stdout stays valid JSON.
	appLogger := logger.New(&logger.Config{
		Level:   level,
		Format:  "text",
		Output:  os.Stderr,
		Service: "memeforge-cli",
	})
	logger.SetDefaultLogger(appLogger)

	req, err := buildRequest(*sourceName, *limit, *nsfw, *minUpvotes, *mediaType, *subreddits, *format, *language)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = appLogger.WithContext(ctx)

	forge := service.NewForgeFromConfig(cfg, appLogger)

	var out interface{}
	if *one {
		single, err := forge.FetchOne(ctx, req)
		if err != nil {
			appLogger.WithError(err).Fatal("Fetch failed")
		}
		if single == nil {
			fmt.Fprintln(os.Stderr, service.ErrNoMeme)
			os.Exit(1)
		}
		if single.Embed != nil {
			out = single.Embed
		} else {
			out = single.Item
		}
	} else {
		res, err := forge.Fetch(ctx, req)
		if err != nil {
			appLogger.WithError(err).Fatal("Fetch failed")
		}
		if res.Format == domain.FormatDiscordEmbed {
			out = nonNil(res.Embeds)
		} else {
			out = nonNil(res.Items)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		appLogger.WithError(err).Fatal("Failed to write output")
	}
}

func buildRequest(src string, limit int, nsfw string, minUpvotes int, mediaType, subreddits, format, language string) (domain.FetchRequest, error) {
	req := domain.FetchRequest{
		Source: strings.TrimSpace(src),
		Limit:  limit,
		Criteria: domain.Criteria{
			MinUpvotes: minUpvotes,
		},
	}
	if limit < 0 || minUpvotes < 0 {
		return req, fmt.Errorf("-limit and -min-upvotes must not be negative")
	}

	switch strings.ToLower(strings.TrimSpace(nsfw)) {
	case "":
	case "true", "1", "yes":
		req.AllowExplicit = domain.Bool(true)
	case "false", "0", "no":
		req.AllowExplicit = domain.Bool(false)
	default:
		return req, fmt.Errorf("invalid -nsfw value %q", nsfw)
	}

	var ok bool
	if req.MediaKind, ok = domain.ParseMediaKind(mediaType); !ok {
		return req, fmt.Errorf("invalid -media-type %q", mediaType)
	}
	if req.Format, ok = domain.ParseOutputFormat(format); !ok {
		return req, fmt.Errorf("invalid -format %q", format)
	}
	if req.Language, ok = domain.ParseLanguage(language); !ok {
		return req, fmt.Errorf("invalid -language %q", language)
	}

	for _, s := range strings.Split(subreddits, ",") {
		if s = strings.TrimSpace(s); s != "" {
			req.Subreddits = append(req.Subreddits, s)
		}
	}
	return req, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
