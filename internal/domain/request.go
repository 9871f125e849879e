package domain

import "strings"

// OutputFormat selects the representation returned by a fetch.
type OutputFormat string

const (
	FormatJSON         OutputFormat = "json"
	FormatDiscordEmbed OutputFormat = "discord-embed"
)

// ParseOutputFormat converts user input into an OutputFormat. Empty input yields FormatJSON.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, true
	case FormatDiscordEmbed:
		return FormatDiscordEmbed, true
	}
	return "", false
}

// Language is a content language hint. Handlers currently carry it without acting on it.
type Language string

const (
	LanguageSpanish Language = "es"
	LanguageEnglish Language = "en"
	LanguageAll     Language = "all"
)

// ParseLanguage converts user input into a Language. Empty input yields LanguageAll.
func ParseLanguage(s string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case "", LanguageAll:
		return LanguageAll, true
	case LanguageSpanish:
		return LanguageSpanish, true
	case LanguageEnglish:
		return LanguageEnglish, true
	}
	return "", false
}

// Criteria holds the post-fetch filter settings of a request.
type Criteria struct {
	// AllowExplicit is tri-state: nil means unspecified and keeps explicit items,
	// only an explicit false enables the explicit-content filter.
	AllowExplicit *bool
	MinUpvotes    int
	MediaKind     MediaKind
	Subreddits    []string
}

// FetchRequest describes one fetch call. It is passed by value and never mutated by callees.
type FetchRequest struct {
	Criteria

	// Limit caps the number of returned items; zero or negative means the handler default.
	Limit int
	// UseCache is accepted for API compatibility; handlers always consult their own cache.
	UseCache *bool
	Format   OutputFormat
	Language Language
	// Source names the handler to use; empty selects the default handler.
	Source string
}

// Bool returns a pointer to b, for building requests inline.
func Bool(b bool) *bool {
	return &b
}
