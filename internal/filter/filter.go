// Package filter narrows handler output down to what a request asked for.
package filter

import (
	"strings"

	"github.com/samber/lo"
	"github.com/timmy/memeforge/internal/domain"
)

// Apply returns the items that satisfy c, in their original order.
// The input slice is not modified. Criteria left at their zero value match everything,
// and AllowExplicit only filters when explicitly set to false.
func Apply(items []domain.MemeItem, c domain.Criteria) []domain.MemeItem {
	var allowed map[string]struct{}
	if len(c.Subreddits) > 0 {
		allowed = make(map[string]struct{}, len(c.Subreddits))
		for _, s := range c.Subreddits {
			allowed[strings.ToLower(s)] = struct{}{}
		}
	}
	dropExplicit := c.AllowExplicit != nil && !*c.AllowExplicit
	checkKind := c.MediaKind != "" && c.MediaKind != domain.MediaKindAny

	return lo.Filter(items, func(item domain.MemeItem, _ int) bool {
		if dropExplicit && IsExplicit(item) {
			return false
		}
		if c.MinUpvotes > 0 && item.Upvotes < c.MinUpvotes {
			return false
		}
		if checkKind && item.MediaKind != c.MediaKind {
			return false
		}
		// items without a subreddit are never excluded by the allow-list
		if allowed != nil && item.Subreddit != "" {
			if _, ok := allowed[strings.ToLower(item.Subreddit)]; !ok {
				return false
			}
		}
		return true
	})
}

// Paginate returns the first limit items. A non-positive limit returns items unchanged.
func Paginate(items []domain.MemeItem, limit int) []domain.MemeItem {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
