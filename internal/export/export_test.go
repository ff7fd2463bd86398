package export

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/assets"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

var stamp = time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)

func snapshot() site.Snapshot {
	s := render.Empty()
	s.Generation = "gen-1"
	s.LastModified = stamp
	s.Sitemap = []byte("<urlset/>")
	s.RSS = []byte("<rss/>")
	s.Atom = []byte("<feed/>")
	s.Pages["/"] = &render.Page{Slug: "/", HTML: []byte("<p>home</p>"), Markdown: []byte("# home"), LastModified: stamp}
	s.Pages["blog/post/"] = &render.Page{Slug: "blog/post/", HTML: []byte("<p>post</p>"), Markdown: []byte("post"), LastModified: stamp}
	s.Aliases["old/post/"] = "blog/post/"
	s.Aliases["feed.xml"] = "rss.xml"
	return site.Snapshot{
		Site:   s,
		Static: assets.Files{"css/site.css": {Data: []byte("body{}"), LastModified: stamp}},
	}
}

func read(t *testing.T, root, rel string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(b)
}

func TestWrite_ProducesServableTree(t *testing.T) {
	out := filepath.Join(t.TempDir(), "public")
	w, err := New(out, nil)
	require.NoError(t, err)

	res, err := w.Write(context.Background(), snapshot(), "https://example.com/")
	require.NoError(t, err)
	require.Equal(t, 2, res.Pages)
	require.Equal(t, 2, res.Aliases)
	require.Equal(t, 1, res.Static)
	require.Equal(t, 1+6+2+3, res.Files)

	require.Equal(t, "<p>home</p>", read(t, out, "index.html"))
	require.Equal(t, "# home", read(t, out, "index.md"))
	require.Equal(t, "# home", read(t, out, "index.txt"))
	require.Equal(t, "<p>post</p>", read(t, out, "blog/post/index.html"))
	require.Equal(t, "post", read(t, out, "blog/post/index.txt"))
	require.Equal(t, "body{}", read(t, out, "css/site.css"))
	require.Equal(t, "<urlset/>", read(t, out, "sitemap.xml"))
	require.Equal(t, "<rss/>", read(t, out, "rss.xml"))
	require.Equal(t, "<feed/>", read(t, out, "atom.xml"))

	stub := read(t, out, "old/post/index.html")
	require.Contains(t, stub, `<link rel=canonical href="https://example.com/blog/post/">`)
	require.Contains(t, stub, `content="0; url=https://example.com/blog/post/"`)
	require.Contains(t, read(t, out, "feed.xml"), "https://example.com/rss.xml")

	info, err := os.Stat(filepath.Join(out, "blog", "post", "index.html"))
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(stamp))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), ".pagesmith-")
	}
}

func TestWrite_Rerun_Overwrites(t *testing.T) {
	out := t.TempDir()
	w, err := New(out, nil)
	require.NoError(t, err)
	_, err = w.Write(context.Background(), snapshot(), "https://example.com")
	require.NoError(t, err)

	snap := snapshot()
	snap.Site.Pages["blog/post/"].HTML = []byte("<p>v2</p>")
	_, err = w.Write(context.Background(), snap, "https://example.com")
	require.NoError(t, err)
	require.Equal(t, "<p>v2</p>", read(t, out, "blog/post/index.html"))
}

func TestWrite_EscapingAlias_ValidationError(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	snap := snapshot()
	snap.Site.Aliases["../../etc/passwd.html"] = "blog/post/"

	_, err = w.Write(context.Background(), snap, "https://example.com")
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestWrite_CancelledContext(t *testing.T) {
	w, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.Write(ctx, snapshot(), "https://example.com")
	require.Error(t, err)
}

func TestAliasFile(t *testing.T) {
	for in, want := range map[string]string{
		"old/post/":  "old/post/index.html",
		"/old/post":  "old/post/index.html",
		"legacy.php": "legacy.php",
		"":           "index.html",
	} {
		require.Equal(t, want, aliasFile(in), in)
	}
}

func TestRedirectHTML_EscapesURL(t *testing.T) {
	out := string(RedirectHTML(`https://example.com/`, `a"b/`))
	require.Contains(t, out, `href="https://example.com/a&#34;b/"`)
	require.Contains(t, out, "<title>Redirect</title>")
}
