package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func put(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func TestLoad_TierPrecedence(t *testing.T) {
	root := t.TempDir()
	theme := filepath.Join(root, "theme", "static")
	pages := filepath.Join(root, "content")
	static := filepath.Join(root, "static")

	put(t, theme, "style.css", "theme")
	put(t, theme, "logo.svg", "theme-logo")
	put(t, pages, "style.css", "content")
	put(t, static, "style.css", "static")
	put(t, pages, "articles/_2024/first-post/image.png", "img")
	put(t, pages, "articles/_2024/first-post/index.md", "# page")
	put(t, pages, "root.txt", "root")

	files, err := Load(context.Background(), Tiers{ThemeStatic: theme, Content: pages, Static: static}, nil)
	require.NoError(t, err)

	require.Equal(t, "static", string(files["style.css"].Data))
	require.Equal(t, "theme-logo", string(files["logo.svg"].Data))
	require.Equal(t, "img", string(files["articles/first-post/image.png"].Data))
	require.Equal(t, "root", string(files["root.txt"].Data))
	require.NotContains(t, files, "articles/first-post/index.md")
	require.Equal(t, []string{"articles/first-post/image.png", "logo.svg", "root.txt", "style.css"}, files.Paths())
}

func TestLoad_MissingTiers_Empty(t *testing.T) {
	files, err := Load(context.Background(), Tiers{Static: filepath.Join(t.TempDir(), "none")}, nil)
	require.NoError(t, err)
	require.Empty(t, files)
}

func TestLookup_AcceptsStaticPrefix(t *testing.T) {
	files := Files{"css/site.css": {Data: []byte("x")}}

	_, key, ok := files.Lookup("/css/site.css")
	require.True(t, ok)
	require.Equal(t, "css/site.css", key)

	_, key, ok = files.Lookup("/static/css/site.css")
	require.True(t, ok)
	require.Equal(t, "css/site.css", key)

	_, _, ok = files.Lookup("/missing.css")
	require.False(t, ok)
}

func TestETag_QuotedAndContentAddressed(t *testing.T) {
	a := ETag([]byte("hello"))
	require.Equal(t, a, ETag([]byte("hello")))
	require.NotEqual(t, a, ETag([]byte("world")))
	require.Len(t, a, 34)
	require.Equal(t, byte('"'), a[0])
}
