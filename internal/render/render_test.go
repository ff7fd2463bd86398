package render

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
)

const layout = `<!doctype html><html><head><title>{{ .page.title }}</title></head><body><h1>{{ .page.title }}</h1>{{ .content }}</body></html>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
site:
  title: Test Site
  base_url: https://example.com
  baseline_date: "2024-02-01"
extra:
  author: Ada
`))
	require.NoError(t, err)
	return cfg
}

func writeTemplates(t *testing.T, files map[string]string) *Templates {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	tpl, err := LoadTemplates(dir)
	require.NoError(t, err)
	return tpl
}

func page(s, rel string, fm map[string]frontmatter.Value, html string) *content.PageRecord {
	meta := frontmatter.Map(fm)
	return &content.PageRecord{
		Slug:         s,
		RelPath:      rel,
		FrontMatter:  meta,
		RawContent:   "raw " + s,
		RenderedHTML: html,
		Title:        meta.StringOr("title", ""),
		ReadingTime:  1,
		Fingerprint:  "fp-" + s,
		LastModified: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fixture() content.Pages {
	return content.Pages{
		"/": page("/", "index", map[string]frontmatter.Value{"title": frontmatter.String("Home")}, "<p>home</p>"),
		"blog/": page("blog/", "blog/_index", map[string]frontmatter.Value{
			"title": frontmatter.String("Blog"),
		}, `<p><img src="./cover.png"></p>`),
		"blog/post/": page("blog/post/", "blog/post", map[string]frontmatter.Value{
			"title":   frontmatter.String("Post"),
			"date":    frontmatter.String("2024-01-02"),
			"tags":    frontmatter.Array(frontmatter.String("Go Lang")),
			"aliases": frontmatter.Array(frontmatter.String("/old/post/")),
			"mood":    frontmatter.String("sunny"),
		}, `<p><a href="/about/">About</a> <img src="./pic.png"> <a href="#top">top</a></p>`),
		"blog/later/": page("blog/later/", "blog/later", map[string]frontmatter.Value{
			"title":   frontmatter.String("Later"),
			"date":    frontmatter.String("2024-03-05"),
			"updated": frontmatter.String("2024-04-01"),
		}, "<p>Hello <b>world</b> &amp; more</p>"),
	}
}

func renderFixture(t *testing.T, opts Options) (*Site, *pagegraph.Metadata) {
	t.Helper()
	meta := pagegraph.Build(fixture(), nil)
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	if opts.Templates == nil {
		opts.Templates = writeTemplates(t, map[string]string{"page.html": layout})
	}
	site, err := New(opts).Render(context.Background(), meta)
	require.NoError(t, err)
	return site, meta
}

func TestRender_LayoutAndRewrite(t *testing.T) {
	site, _ := renderFixture(t, Options{})
	require.NotEmpty(t, site.Generation)
	require.Len(t, site.Pages, 4)

	got := string(site.Pages["blog/post/"].HTML)
	require.Contains(t, got, "<h1>Post</h1>")
	require.Contains(t, got, `href="https://example.com/about/"`)
	require.Contains(t, got, `src="https://example.com/blog/pic.png"`)
	require.Contains(t, got, `href="#top"`)
	require.NotContains(t, got, "EventSource")
}

func TestRender_SectionIndex_ResolvesNextToItself(t *testing.T) {
	site, _ := renderFixture(t, Options{})
	require.Contains(t, string(site.Pages["blog/"].HTML), `src="https://example.com/blog/cover.png"`)
}

func TestRender_ETags_QuotedAndDistinct(t *testing.T) {
	site, _ := renderFixture(t, Options{})
	p := site.Pages["blog/post/"]
	require.True(t, strings.HasPrefix(p.HTMLETag, `"`) && strings.HasSuffix(p.HTMLETag, `"`))
	require.Equal(t, `"fp-blog/post/"`, p.SourceETag)
	require.NotEqual(t, site.Pages["blog/later/"].HTMLETag, p.HTMLETag)
	require.Equal(t, "raw blog/post/", string(p.Markdown))
}

func TestRender_Aliases(t *testing.T) {
	site, _ := renderFixture(t, Options{})
	require.Equal(t, map[string]string{"old/post/": "blog/post/"}, site.Aliases)
}

func TestRender_MissingTemplate_UsesFallback(t *testing.T) {
	tpl := writeTemplates(t, map[string]string{"other.html": layout})
	site, _ := renderFixture(t, Options{Templates: tpl})
	got := string(site.Pages["blog/post/"].HTML)
	require.Contains(t, got, "<title>Post</title>")
	require.Contains(t, got, "<main>")
	require.Contains(t, got, `href="https://example.com/about/"`)
}

func TestRender_LiveReload_InjectedBeforeBody(t *testing.T) {
	site, _ := renderFixture(t, Options{LiveReload: true})
	got := string(site.Pages["/"].HTML)
	idx := strings.Index(got, "EventSource('"+LiveReloadPath+"')")
	require.Positive(t, idx)
	require.Less(t, idx, strings.LastIndex(got, "</body>"))
}

func TestRender_TemplatePage_ExpandsBody(t *testing.T) {
	cfg := testConfig(t)
	rec := page("hello/", "hello", map[string]frontmatter.Value{"title": frontmatter.String("Hi")}, "")
	rec.Format = content.FormatTemplate
	rec.RawContent = `<p>{{ .page.title }} on {{ .config.Site.Title }}</p>`
	meta := pagegraph.Build(content.Pages{"hello/": rec}, nil)

	tpl := writeTemplates(t, map[string]string{"page.html": layout})
	site, err := New(Options{Config: cfg, Templates: tpl}).Render(context.Background(), meta)
	require.NoError(t, err)

	p := site.Pages["hello/"]
	require.Contains(t, string(p.HTML), "<p>Hi on Test Site</p>")
	require.Contains(t, string(p.Markdown), "Hi on Test Site")
	require.NotEqual(t, `"fp-hello/"`, p.SourceETag)
}

func TestRender_CancelledContext_Fails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	meta := pagegraph.Build(fixture(), nil)
	_, err := New(Options{Config: testConfig(t)}).Render(ctx, meta)
	require.Error(t, err)
}

func TestSitemap_BaselineAndUpdated(t *testing.T) {
	site, _ := renderFixture(t, Options{})
	got := string(site.Sitemap)
	require.Contains(t, got, "<loc>https://example.com</loc>")
	require.Contains(t, got, "<loc>https://example.com/blog/post/</loc><lastmod>2024-02-01</lastmod>")
	require.Contains(t, got, "<loc>https://example.com/blog/later/</loc><lastmod>2024-04-01</lastmod>")
}

func TestFeeds_DatedPagesNewestFirst(t *testing.T) {
	site, _ := renderFixture(t, Options{})

	rss := string(site.RSS)
	require.Contains(t, rss, `<?xml-stylesheet type="text/xsl" href="/feed.xsl"?>`)
	require.Contains(t, rss, "<pubDate>Tue, 02 Jan 2024 00:00:00 GMT</pubDate>")
	require.Contains(t, rss, "<category>Go Lang</category>")
	require.Less(t, strings.Index(rss, "<title>Later</title>"), strings.Index(rss, "<title>Post</title>"))
	require.NotContains(t, rss, "<title>Home</title>")

	atom := string(site.Atom)
	require.Contains(t, atom, "<updated>2024-03-05T00:00:00Z</updated>")
	require.Contains(t, atom, "<name>Ada</name>")
	require.Contains(t, atom, `<category term="Go Lang"></category>`)
}

func TestAtom_NoDatedPages_DefaultUpdated(t *testing.T) {
	cfg, err := config.Parse([]byte("site:\n  base_url: https://example.com\n"))
	require.NoError(t, err)
	meta := pagegraph.Build(content.Pages{"/": page("/", "index", nil, "")}, nil)

	atom, err := Atom(cfg, meta)
	require.NoError(t, err)
	require.Contains(t, string(atom), "<updated>"+defaultAtomUpdated+"</updated>")
	require.Contains(t, string(atom), "<name>Unknown</name>")
}

func TestFeedDescription_FallsBackToPlainText(t *testing.T) {
	rec := page("x/", "x", nil, "<p>Hello <b>world</b> &amp; more</p>")
	require.Equal(t, "Hello world & more", feedDescription(rec))

	rec = page("y/", "y", map[string]frontmatter.Value{"description": frontmatter.String("Set")}, "<p>ignored</p>")
	require.Equal(t, "Set", feedDescription(rec))

	rec = page("z/", "z", nil, "<p>"+strings.Repeat("é", 300)+"</p>")
	require.Equal(t, 200, len([]rune(feedDescription(rec))))
}

func TestDates(t *testing.T) {
	require.Equal(t, "Tue, 02 Jan 2024 00:00:00 GMT", rssDate("2024-01-02"))
	require.Equal(t, "not a date", rssDate("not a date"))
	require.Equal(t, "2024-01-02T00:00:00Z", atomDate("2024-01-02"))
	require.Equal(t, "2024-01-02T10:00:00+02:00", atomDate("2024-01-02T10:00:00+02:00"))
	require.Equal(t, "2024-01T00:00:00Z", atomDate("2024-01"))
}

func TestPageObject_DerivedFields(t *testing.T) {
	cfg := testConfig(t)
	meta := pagegraph.Build(fixture(), nil)
	p := pageObject(cfg, meta, meta.Pages["blog/post/"])

	require.Equal(t, "Post", p["title"])
	require.Equal(t, "post", p["slug"])
	require.Equal(t, "https://example.com/blog/post/", p["permalink"])
	require.Equal(t, "blog/post.md", p["relative_path"])
	require.Equal(t, "sunny", p["mood"])
	require.Equal(t, map[string]any{"mood": "sunny", "date": "2024-01-02", "aliases": []any{"/old/post/"}}, p["Extra"])

	tags := p["tags"].([]map[string]any)
	require.Equal(t, "https://example.com/tags/#go-lang", tags[0]["permalink"])

	// siblings run SortKey descending, so the older post precedes the newer one
	lower := p["lower"].(map[string]any)
	require.Equal(t, "Later", lower["title"])
	require.Equal(t, "https://example.com/blog/later/", lower["permalink"])
	require.NotContains(t, p, "higher")

	section := pageObject(cfg, meta, meta.Pages["blog/"])
	children := section["children"].([]map[string]any)
	require.Len(t, children, 2)
	require.Equal(t, "blog/later/", children[0]["slug"])
}

func TestPageContext_FrontMatterOverridesTitle(t *testing.T) {
	cfg := testConfig(t)
	meta := pagegraph.Build(fixture(), nil)
	c := pageContext(cfg, meta, meta.Pages["blog/post/"], "")
	require.Equal(t, "Post", c["title"])
	require.Equal(t, "/blog/post/", c["current_page"])

	alts := c["alternates"].([]Alternate)
	require.Equal(t, "/blog/post/index.md", alts[0].URL)

	root := pageContext(cfg, meta, meta.Pages["/"], "")
	require.Equal(t, "/index.md", root["alternates"].([]Alternate)[0].URL)
	require.Empty(t, root["breadcrumbs"])
}

func TestLinkedData_Shapes(t *testing.T) {
	cfg := testConfig(t)
	meta := pagegraph.Build(fixture(), nil)
	ld := &linkedData{cfg: cfg, meta: meta, now: func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }}

	decode := func(kind, current string) map[string]any {
		js, err := ld.JSON(kind, current)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.Unmarshal([]byte(js), &out))
		return out
	}

	article := decode("article", "/blog/post/")
	require.Equal(t, "BlogPosting", article["@type"])
	require.Equal(t, "Post", article["headline"])
	require.Equal(t, "https://example.com/blog/post/", article["url"])
	require.Equal(t, "2024-01-02T00:00:00Z", article["datePublished"])

	site := decode("website", "/blog/post/")
	require.Equal(t, "2025", site["copyrightYear"])
	require.Equal(t, "Ada", site["author"].(map[string]any)["name"])

	crumbs := decode("breadcrumb", "/blog/post/")
	require.Len(t, crumbs["itemListElement"], 2)

	empty, err := ld.JSON("breadcrumb", "/")
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = ld.JSON("bogus", "/")
	require.Error(t, err)
}

func TestRewritePath(t *testing.T) {
	require.Equal(t, "/index", rewritePath(&content.PageRecord{Slug: "/", RelPath: "index"}))
	require.Equal(t, "/blog/index", rewritePath(&content.PageRecord{Slug: "blog/", RelPath: "blog/_index"}))
	require.Equal(t, "/blog/post/", rewritePath(&content.PageRecord{Slug: "blog/post/", RelPath: "blog/post"}))
}
