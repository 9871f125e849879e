package filter

import (
	"strings"

	"github.com/timmy/memeforge/internal/domain"
)

var (
	explicitKeywords   = []string{"nsfw", "porn", "hentai", "sexy", "lewd", "adult", "xxx", "18+", "nude"}
	explicitSubreddits = []string{"nsfw", "gonewild", "rule34", "hentai", "porn"}
)

// HasExplicitText reports whether any explicit keyword occurs in the given texts.
// Matching is case-insensitive substring matching.
func HasExplicitText(texts ...string) bool {
	haystack := strings.ToLower(strings.Join(texts, " "))
	for _, kw := range explicitKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// IsExplicit is the keyword heuristic for explicit content. It reports true when the item is
// flagged by its provider, comes from a subreddit whose name contains an explicit marker, or
// mentions an explicit keyword in its title or media URL.
func IsExplicit(item domain.MemeItem) bool {
	if item.IsExplicit {
		return true
	}
	if sub := strings.ToLower(item.Subreddit); sub != "" {
		for _, marker := range explicitSubreddits {
			if strings.Contains(sub, marker) {
				return true
			}
		}
	}
	return HasExplicitText(item.Title, item.MediaURL)
}
