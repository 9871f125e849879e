// Package discord projects meme items into Discord embed objects.
package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/timmy/memeforge/internal/domain"
)

// Discord embed field limits, in characters.
const (
	MaxTitle       = 256
	MaxDescription = 4096
	MaxFooter      = 2048
	MaxAuthorName  = 256

	// Color is the embed accent, Reddit orange.
	Color = 0xFF4500
)

// ToEmbed converts item into an embed. Text fields are truncated to Discord's limits.
// Images and GIFs are shown inline; videos are linked from the description instead.
func ToEmbed(item domain.MemeItem) domain.Embed {
	embed := domain.Embed{
		Title:       truncate(item.Title, MaxTitle),
		URL:         item.SourcePageURL,
		Description: truncate(description(item), MaxDescription),
		Color:       Color,
		Footer:      &domain.EmbedFooter{Text: truncate(footer(item), MaxFooter)},
	}

	if item.Author != "" && item.Author != "unknown" {
		name := item.Author
		if item.Subreddit != "" {
			name = "u/" + name
		}
		embed.Author = &domain.EmbedAuthor{Name: truncate(name, MaxAuthorName), URL: item.SourcePageURL}
	}

	switch item.MediaKind {
	case domain.MediaKindImage, domain.MediaKindGIF:
		embed.Image = &domain.EmbedImage{URL: item.MediaURL}
	}

	if item.CreatedAtMs > 0 {
		embed.Timestamp = time.UnixMilli(item.CreatedAtMs).UTC().Format(time.RFC3339)
	}
	return embed
}

// ToEmbeds converts every item, preserving order.
func ToEmbeds(items []domain.MemeItem) []domain.Embed {
	out := make([]domain.Embed, 0, len(items))
	for _, it := range items {
		out = append(out, ToEmbed(it))
	}
	return out
}

func description(item domain.MemeItem) string {
	parts := []string{fmt.Sprintf("👍 %d", item.Upvotes)}
	if item.Subreddit != "" {
		parts = append(parts, "r/"+item.Subreddit)
	}
	if item.IsSpoiler {
		parts = append(parts, "spoiler")
	}
	desc := strings.Join(parts, " | ")
	if item.MediaKind == domain.MediaKindVideo {
		desc += "\n🎬 " + item.MediaURL
	}
	return desc
}

func footer(item domain.MemeItem) string {
	if item.Provider == "" {
		return "memeforge"
	}
	return "memeforge • " + item.Provider
}

// truncate shortens s to at most limit runes, marking the cut with "...".
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
