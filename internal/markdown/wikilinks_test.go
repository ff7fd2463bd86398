package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessLinks_RewritesWikiLinks(t *testing.T) {
	out, links := ProcessLinks("See [[about]] and [[blog/first]].")

	require.Equal(t, `See <a href="/about">about</a> and <a href="/blog/first">blog/first</a>.`, out)
	require.Equal(t, []string{"about", "blog/first"}, links)
}

func TestProcessLinks_PreservesTrailingSpaces(t *testing.T) {
	in := "first line.  \nsecond line.  \nthird"
	out, links := ProcessLinks(in)

	require.Equal(t, in, out)
	require.Empty(t, links)
}
