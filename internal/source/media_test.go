package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timmy/memeforge/internal/domain"
)

func TestClassifyMedia(t *testing.T) {
	testCases := []struct {
		name       string
		url        string
		imageHosts []string
		want       domain.MediaKind
		wantOK     bool
	}{
		{name: "png", url: "https://i.imgur.com/a.png", want: domain.MediaKindImage, wantOK: true},
		{name: "uppercase jpeg", url: "https://x.test/A.JPEG", want: domain.MediaKindImage, wantOK: true},
		{name: "webp with query", url: "https://x.test/a.webp?width=640", want: domain.MediaKindImage, wantOK: true},
		{name: "gif", url: "https://x.test/a.gif", want: domain.MediaKindGIF, wantOK: true},
		{name: "gifv", url: "https://i.imgur.com/a.gifv", want: domain.MediaKindGIF, wantOK: true},
		{name: "mp4", url: "https://x.test/a.mp4", want: domain.MediaKindVideo, wantOK: true},
		{name: "reddit video host", url: "https://v.redd.it/abc123", want: domain.MediaKindVideo, wantOK: true},
		{name: "reddit image host allowed", url: "https://i.redd.it/abc123", imageHosts: []string{RedditImageHost}, want: domain.MediaKindImage, wantOK: true},
		{name: "reddit image host not allowed", url: "https://i.redd.it/abc123"},
		{name: "unknown extension", url: "https://x.test/page.html"},
		{name: "empty", url: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ClassifyMedia(tc.url, tc.imageHosts...)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLastPathSegment(t *testing.T) {
	assert.Equal(t, "abc", LastPathSegment("https://redd.it/abc"))
	assert.Equal(t, "abc", LastPathSegment("https://redd.it/abc/"))
	assert.Equal(t, "plain", LastPathSegment("plain"))
}
