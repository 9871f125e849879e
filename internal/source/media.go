package source

import (
	"regexp"
	"strings"

	"github.com/timmy/memeforge/internal/domain"
)

// Host patterns recognized in place of a file extension.
const (
	RedditImageHost = "i.redd.it"
	RedditVideoHost = "v.redd.it"
)

var (
	imagePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)`)
	gifPattern   = regexp.MustCompile(`(?i)\.(gif|gifv)`)
	videoPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mov)`)
)

// ClassifyMedia resolves the media kind of a URL from its extension or host.
// Extensions may appear anywhere in the URL, so query-suffixed CDN links still match.
// Parameters:
//   - url: media URL.
//   - imageHosts: hosts that serve images without an extension (e.g. RedditImageHost).
// Returns:
//   - domain.MediaKind: image, gif, or video.
//   - bool: false when the URL matches no known media pattern.
func ClassifyMedia(url string, imageHosts ...string) (domain.MediaKind, bool) {
	if url == "" {
		return "", false
	}
	if imagePattern.MatchString(url) || containsAny(url, imageHosts) {
		return domain.MediaKindImage, true
	}
	if gifPattern.MatchString(url) {
		return domain.MediaKindGIF, true
	}
	if strings.Contains(url, RedditVideoHost) || videoPattern.MatchString(url) {
		return domain.MediaKindVideo, true
	}
	return "", false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// LastPathSegment returns the final non-empty "/"-separated segment of s.
func LastPathSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
