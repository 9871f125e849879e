package domain

import "strings"

// MediaKind represents the kind of media a meme points at.
// Values include MediaKindImage, MediaKindGIF, MediaKindVideo, and the MediaKindAny filter wildcard.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindGIF   MediaKind = "gif"
	MediaKindVideo MediaKind = "video"
	// MediaKindAny matches every kind. It is only used in filters, never stored on an item.
	MediaKindAny MediaKind = "any"
)

// ParseMediaKind converts user input into a MediaKind.
// Parameters:
//   - s: raw kind name, case-insensitive. Empty input yields MediaKindAny.
// Returns:
//   - MediaKind: parsed kind.
//   - bool: false if s names no known kind.
func ParseMediaKind(s string) (MediaKind, bool) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", MediaKindAny:
		return MediaKindAny, true
	case MediaKindImage:
		return MediaKindImage, true
	case MediaKindGIF:
		return MediaKindGIF, true
	case MediaKindVideo:
		return MediaKindVideo, true
	}
	return "", false
}

// Stored reports whether k is a concrete kind that may appear on an item.
func (k MediaKind) Stored() bool {
	return k == MediaKindImage || k == MediaKindGIF || k == MediaKindVideo
}

// MemeItem is the canonical meme record every source handler maps into.
// MediaURL is always non-empty for items returned by a handler.
type MemeItem struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	MediaURL      string    `json:"url"`
	SourcePageURL string    `json:"source_url"`
	Author        string    `json:"author"`
	Subreddit     string    `json:"subreddit,omitempty"`
	Upvotes       int       `json:"upvotes"`
	IsExplicit    bool      `json:"nsfw"`
	IsSpoiler     bool      `json:"spoiler"`
	MediaKind     MediaKind `json:"media_type"`
	CreatedAtMs   int64     `json:"created_at"`
	Width         int       `json:"width,omitempty"`
	Height        int       `json:"height,omitempty"`
	Provider      string    `json:"source"`
}
