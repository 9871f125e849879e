package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memeforge/internal/domain"
)

func TestBuildRequest(t *testing.T) {
	req, err := buildRequest(" reddit ", 5, "false", 10, "gif", "memes, ,dankmemes", "discord-embed", "es")
	require.NoError(t, err)

	assert.Equal(t, "reddit", req.Source)
	assert.Equal(t, 5, req.Limit)
	require.NotNil(t, req.AllowExplicit)
	assert.False(t, *req.AllowExplicit)
	assert.Equal(t, 10, req.MinUpvotes)
	assert.Equal(t, domain.MediaKindGIF, req.MediaKind)
	assert.Equal(t, []string{"memes", "dankmemes"}, req.Subreddits)
	assert.Equal(t, domain.FormatDiscordEmbed, req.Format)
	assert.Equal(t, domain.LanguageSpanish, req.Language)
}

func TestBuildRequestDefaults(t *testing.T) {
	req, err := buildRequest("", 10, "", 0, "any", "", "json", "all")
	require.NoError(t, err)

	assert.Nil(t, req.AllowExplicit)
	assert.Empty(t, req.Subreddits)
	assert.Equal(t, domain.MediaKindAny, req.MediaKind)
	assert.Equal(t, domain.FormatJSON, req.Format)
}

func TestBuildRequestRejectsBadInput(t *testing.T) {
	testCases := []struct {
		name string
		call func() error
	}{
		{name: "negative limit", call: func() error { _, err := buildRequest("", -1, "", 0, "any", "", "json", "all"); return err }},
		{name: "bad nsfw", call: func() error { _, err := buildRequest("", 1, "maybe", 0, "any", "", "json", "all"); return err }},
		{name: "bad media type", call: func() error { _, err := buildRequest("", 1, "", 0, "audio", "", "json", "all"); return err }},
		{name: "bad format", call: func() error { _, err := buildRequest("", 1, "", 0, "any", "", "xml", "all"); return err }},
		{name: "bad language", call: func() error { _, err := buildRequest("", 1, "", 0, "any", "", "json", "de"); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.call())
		})
	}
}
