package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Test Page", "test-page/"},
		{"test_page", "test-page/"},
		{"Test-Page", "test-page/"},
		{"articles/My Article", "articles/my-article/"},
		{"", "/"},
		{"index", "/"},
		{"_index", "/"},
		{"articles", "articles/"},
		{"articles/", "articles/"},
		{"articles/_index", "articles/"},
		{"articles/index", "articles/"},
		{"articles/tech", "articles/tech/"},
		{"a--b  c", "a-b-c/"},
		{"Café Crème", "cafe-creme/"},
		{"what?!", "what/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_TransparentDirs_AreStripped(t *testing.T) {
	require.Equal(t, "articles/my-post/", Slugify("articles/_2024/my-post"))
	require.Equal(t, "articles/my-post/", Slugify("articles/_2024/_drafts/my-post"))
	require.Equal(t, "articles/nested/page/", Slugify("articles/_old/nested/page"))
	require.Equal(t, "articles/post/", Slugify("_hidden/articles/_2024/post"))
	require.Equal(t, "old-post/", Slugify("_archive/old-post"))
	require.Equal(t, "articles/", Slugify("articles/_2024/_index"))
	require.Equal(t, "articles/my-post/", Slugify("articles/my_post"))
}

func TestNormalizePath(t *testing.T) {
	require.Equal(t, "/", NormalizePath("/"))
	require.Equal(t, "/", NormalizePath(""))
	require.Equal(t, "/", NormalizePath("///"))
	require.Equal(t, "articles/", NormalizePath("/articles"))
	require.Equal(t, "articles/", NormalizePath("articles/"))
	require.Equal(t, "articles/tech/", NormalizePath("/articles/tech"))
	require.Equal(t, "index/", NormalizePath("/index"))
	require.Equal(t, "articles/index.md", NormalizePath("/articles/index.md"))
	require.Equal(t, "articles.txt", NormalizePath("/articles.txt"))
	require.Equal(t, "articles/index.html", NormalizePath("/articles/index.html"))
}

func TestSlugify_MatchesNormalizedRequestPath(t *testing.T) {
	require.Equal(t, NormalizePath("/"), Slugify("_index"))
	require.Equal(t, NormalizePath("/articles"), Slugify("articles/_index"))
	require.Equal(t, NormalizePath("/articles/tech/"), Slugify("articles/tech/index"))
	require.Equal(t, NormalizePath("/articles/some-post"), Slugify("articles/some-post"))
}

func TestTag(t *testing.T) {
	require.Equal(t, "rust", Tag("Rust"))
	require.Equal(t, "type-theory", Tag("Type Theory"))
	require.Equal(t, "c", Tag("C++"))
	require.Equal(t, "naive", Tag("Naïve"))
	require.Equal(t, "untagged", Tag("~untagged"))
}

func TestPrefixParentDepth(t *testing.T) {
	require.Equal(t, "", Prefix("/"))
	require.Equal(t, "", Prefix("blog/"))
	require.Equal(t, "blog", Prefix("blog/post/"))
	require.Equal(t, "a/b", Prefix("a/b/c/"))

	require.Equal(t, "", Parent("/"))
	require.Equal(t, "/", Parent("blog/"))
	require.Equal(t, "blog/", Parent("blog/post/"))

	require.Equal(t, 0, Depth("/"))
	require.Equal(t, 1, Depth("blog/"))
	require.Equal(t, 3, Depth("a/b/c/"))

	require.Equal(t, "c", Base("a/b/c/"))
	require.Equal(t, "", Base("/"))
}

func TestIsChild(t *testing.T) {
	require.True(t, IsChild("/", "blog/"))
	require.True(t, IsChild("blog/", "blog/post/"))
	require.False(t, IsChild("blog/", "blog/a/b/"))
	require.False(t, IsChild("blog/", "blogs/post/"))
	require.False(t, IsChild("blog/", "blog/"))
}

func TestStableHash(t *testing.T) {
	require.Equal(t, uint64(0), StableHash(""))
	require.Equal(t, uint64('a'), StableHash("a"))
	require.Equal(t, uint64('a')*31+uint64('b'), StableHash("ab"))
	require.NotEqual(t, StableHash("test"), StableHash("different"))
}
