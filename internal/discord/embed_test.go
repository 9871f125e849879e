package discord

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memeforge/internal/domain"
)

func sampleItem() domain.MemeItem {
	return domain.MemeItem{
		ID:            "abc",
		Title:         "When the build passes",
		MediaURL:      "https://i.redd.it/abc.png",
		SourcePageURL: "https://reddit.com/r/memes/comments/abc/",
		Author:        "tester",
		Subreddit:     "memes",
		Upvotes:       1234,
		MediaKind:     domain.MediaKindImage,
		CreatedAtMs:   1700000000000,
		Provider:      "reddit",
	}
}

func TestToEmbed(t *testing.T) {
	e := ToEmbed(sampleItem())

	assert.Equal(t, "When the build passes", e.Title)
	assert.Equal(t, "https://reddit.com/r/memes/comments/abc/", e.URL)
	assert.Equal(t, "👍 1234 | r/memes", e.Description)
	assert.Equal(t, 0xFF4500, e.Color)
	require.NotNil(t, e.Author)
	assert.Equal(t, "u/tester", e.Author.Name)
	require.NotNil(t, e.Image)
	assert.Equal(t, "https://i.redd.it/abc.png", e.Image.URL)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "memeforge • reddit", e.Footer.Text)
	assert.Equal(t, "2023-11-14T22:13:20Z", e.Timestamp)
}

func TestToEmbedVideoHasNoImage(t *testing.T) {
	it := sampleItem()
	it.MediaKind = domain.MediaKindVideo
	it.MediaURL = "https://v.redd.it/abc/DASH_720.mp4"

	e := ToEmbed(it)
	assert.Nil(t, e.Image)
	assert.Contains(t, e.Description, it.MediaURL)
}

func TestToEmbedOmitsUnknownAuthor(t *testing.T) {
	it := sampleItem()
	it.Author = "unknown"
	assert.Nil(t, ToEmbed(it).Author)

	it.Author = "want.cat"
	it.Subreddit = ""
	e := ToEmbed(it)
	require.NotNil(t, e.Author)
	assert.Equal(t, "want.cat", e.Author.Name)
	assert.Equal(t, "👍 1234", e.Description)
}

func TestToEmbedTruncatesTitle(t *testing.T) {
	it := sampleItem()
	it.Title = strings.Repeat("ñ", 300)

	e := ToEmbed(it)
	assert.Equal(t, MaxTitle, utf8.RuneCountInString(e.Title))
	assert.True(t, strings.HasSuffix(e.Title, "..."))
}

func TestToEmbeds(t *testing.T) {
	a, b := sampleItem(), sampleItem()
	b.Title = "second"
	embeds := ToEmbeds([]domain.MemeItem{a, b})
	require.Len(t, embeds, 2)
	assert.Equal(t, "second", embeds[1].Title)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}
