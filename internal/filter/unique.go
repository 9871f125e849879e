package filter

import (
	"net/url"
	"strings"

	"github.com/timmy/memeforge/internal/domain"
)

// UniqueMedia drops items whose media URL points at the same file as an earlier item.
// Two URLs match when their hosts agree after removing an "i." prefix and their paths are
// equal; query strings are ignored.
func UniqueMedia(items []domain.MemeItem) []domain.MemeItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.MemeItem, 0, len(items))
	for _, it := range items {
		key := mediaKey(it.MediaURL)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// SameMedia reports whether two media URLs point at the same file.
func SameMedia(a, b string) bool {
	return mediaKey(a) == mediaKey(b)
}

func mediaKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(strings.ToLower(u.Host), "i.") + u.Path
}
