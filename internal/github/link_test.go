package github_test

import (
	"strconv"
	"testing"

	"github.com/travishathaway/gdfm/internal/domain"
	"github.com/travishathaway/gdfm/internal/github"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinkHeader_PrevAndLast(t *testing.T) {
	header := `<https://api.github.com/repositories/1/pulls?state=all&page=1>; rel="prev", ` +
		`<https://api.github.com/repositories/1/pulls?state=all&page=5>; rel="last"`

	links, err := github.ParseLinkHeader(header)
	require.NoError(t, err)

	last, ok := links.Last()
	assert.True(t, ok)
	assert.Equal(t, 5, last)
	assert.Equal(t, 1, links[github.RelPrev].Page)

	_, ok = links.Next()
	assert.False(t, ok)
}

func TestParseLinkHeader_LastPageValues(t *testing.T) {
	for _, k := range []int{1, 2, 7, 100, 4321} {
		header := `<https://api.github.com/x?page=2&per_page=100>; rel="next", ` +
			`<https://api.github.com/x?per_page=100&page=` + strconv.Itoa(k) + `>; rel="last"`

		links, err := github.ParseLinkHeader(header)
		require.NoError(t, err)

		last, ok := links.Last()
		assert.True(t, ok)
		assert.Equal(t, k, last)
	}
}

func TestParseLinkHeader_Empty(t *testing.T) {
	links, err := github.ParseLinkHeader("  ")
	require.NoError(t, err)
	assert.Empty(t, links)

	_, ok := links.Last()
	assert.False(t, ok)
}

func TestParseLinkHeader_Malformed(t *testing.T) {
	testCases := []struct {
		name   string
		header string
	}{
		{"no brackets", `https://x?page=2; rel="last"`},
		{"unterminated url", `<https://x?page=2; rel="last"`},
		{"missing rel", `<https://x?page=2>`},
		{"parameter without value", `<https://x?page=2>; rel`},
		{"missing page", `<https://x?per_page=100>; rel="last"`},
		{"non numeric page", `<https://x?page=abc>; rel="last"`},
		{"zero page", `<https://x?page=0>; rel="last"`},
		{"negative page", `<https://x?page=-3>; rel="last"`},
		{"trailing garbage entry", `<https://x?page=2>; rel="next", garbage`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			links, err := github.ParseLinkHeader(tc.header)
			assert.Nil(t, links)
			assert.ErrorIs(t, err, domain.ErrParse)

			var parseErr *github.LinkParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.header, parseErr.Header)
		})
	}
}
