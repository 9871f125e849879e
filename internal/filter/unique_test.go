package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/timmy/memeforge/internal/domain"
)

func TestSameMedia(t *testing.T) {
	testCases := []struct {
		a, b string
		want bool
	}{
		{a: "https://i.imgur.com/x.png", b: "https://imgur.com/x.png", want: true},
		{a: "https://i.redd.it/x.png?width=640", b: "https://i.redd.it/x.png", want: true},
		{a: "https://i.redd.it/x.png", b: "https://i.redd.it/y.png", want: false},
		{a: "https://a.test/x.png", b: "https://b.test/x.png", want: false},
		{a: "not a url", b: "not a url", want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.want, SameMedia(tc.a, tc.b))
		})
	}
}

func TestUniqueMediaKeepsFirst(t *testing.T) {
	items := []domain.MemeItem{
		{ID: "1", MediaURL: "https://i.imgur.com/x.png"},
		{ID: "2", MediaURL: "https://imgur.com/x.png"},
		{ID: "3", MediaURL: "https://imgur.com/y.png"},
	}
	assert.Equal(t, []string{"1", "3"}, idsOf(UniqueMedia(items)))
}
