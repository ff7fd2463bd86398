package pagegraph

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/badges"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

type fm map[string]frontmatter.Value

func rec(s, title string, fields fm) *content.PageRecord {
	if fields == nil {
		fields = fm{}
	}
	if title != "" {
		fields["title"] = frontmatter.String(title)
	}
	return &content.PageRecord{
		Slug:         s,
		RelPath:      strings.Trim(s, "/"),
		Title:        title,
		FrontMatter:  frontmatter.Map(fields),
		LastModified: time.Unix(1700000000, 0),
		ReadingTime:  1,
	}
}

func site() content.Pages {
	pages := content.Pages{}
	for _, p := range []*content.PageRecord{
		rec("/", "Home", nil),
		rec("blog/", "Blog", fm{"in_nav": frontmatter.Bool(true)}),
		rec("blog/old/", "Old", fm{"date": frontmatter.String("2023-01-01")}),
		rec("blog/new/", "New", fm{"date": frontmatter.String("2024-06-01")}),
		rec("blog/undated/", "Undated", nil),
		rec("blog/pinned/", "Pinned", fm{"sort_key": frontmatter.Int(-1)}),
		rec("blog/new/part/", "", nil),
		rec("about/", "About", fm{"in_nav": frontmatter.Bool(true)}),
		rec("orphan/deep/", "Deep", nil),
	} {
		pages[p.Slug] = p
	}
	pages["orphan/deep/"].LastModified = time.Unix(1800000000, 0)
	return pages
}

func TestSortKey_Compare(t *testing.T) {
	dated := SortKey{Date: "2024-01-01", Slug: "b/"}
	newer := SortKey{Date: "2024-06-01", Slug: "c/"}
	undated := SortKey{Slug: "a/"}
	pinned := SortKey{Priority: -1, Slug: "z/"}

	require.True(t, newer.Less(dated), "newer dates first")
	require.True(t, dated.Less(undated), "dated before undated")
	require.True(t, pinned.Less(newer), "priority wins")
	require.True(t, SortKey{Slug: "a/"}.Less(SortKey{Slug: "b/"}))
	require.Equal(t, 0, dated.Compare(dated))
}

func TestBuild_SiblingOrder_IsSortKeyDescending(t *testing.T) {
	m := Build(site(), nil)

	require.Equal(t, []string{"blog/undated/", "blog/old/", "blog/new/", "blog/pinned/"}, m.SiblingOrders["blog"])
	require.Equal(t, []string{"blog/", "about/"}, m.SiblingOrders[""])
	require.NotContains(t, m.SiblingOrders[""], "/")
	require.Equal(t, []string{"orphan/deep/"}, m.SiblingOrders["orphan"])
}

func TestBuild_SiblingOrder_ConsistentWithSortKey(t *testing.T) {
	pages := site()
	m := Build(pages, nil)

	for _, group := range m.SiblingOrders {
		for i := 1; i < len(group); i++ {
			require.True(t, KeyFor(pages[group[i]]).Less(KeyFor(pages[group[i-1]])))
		}
	}
}

func TestBuild_Summaries_ChildrenAscendingAndOneDeeper(t *testing.T) {
	m := Build(site(), nil)

	blog := m.Summaries["blog/"]
	slugs := make([]string, 0, len(blog.Children))
	for _, c := range blog.Children {
		slugs = append(slugs, c.Slug)
	}
	require.Equal(t, []string{"blog/pinned/", "blog/new/", "blog/old/", "blog/undated/"}, slugs)
	require.Equal(t, "blog/new/part/", m.Summaries["blog/new/"].Children[0].Slug)
	require.Equal(t, "blog/new/part/", m.Summaries["blog/new/part/"].Title)

	for parent, sum := range m.Summaries {
		for _, c := range sum.Children {
			require.True(t, slug.IsChild(parent, c.Slug), "%s under %s", c.Slug, parent)
			require.NotEqual(t, parent, c.Slug)
		}
	}

	root := m.Summaries["/"]
	require.Equal(t, "/", root.Permalink)
	require.Len(t, root.Children, 2)
	require.Empty(t, m.Summaries["orphan/deep/"].Children)
}

func TestBuild_NavItemsAndLastModified(t *testing.T) {
	m := Build(site(), nil)

	require.Equal(t, []NavItem{{Title: "About", URL: "/about/"}, {Title: "Blog", URL: "/blog/"}}, m.NavItems)
	require.True(t, m.LastModified.Equal(time.Unix(1800000000, 0)))
	path, ok := m.RelativePath("blog/new/")
	require.True(t, ok)
	require.Equal(t, "blog/new.md", path)
}

func TestBreadcrumbs(t *testing.T) {
	m := Build(site(), nil)

	require.Nil(t, m.Breadcrumbs("/", "https://example.com"))
	require.Equal(t, []Breadcrumb{
		{Title: "Home", URL: "https://example.com/"},
		{Title: "Blog", URL: "https://example.com/blog/"},
		{Title: "New", URL: "https://example.com/blog/new/"},
	}, m.Breadcrumbs("blog/new/part/", "https://example.com/"))
}

func TestBreadcrumbs_NoRootPage_UsesTilde(t *testing.T) {
	pages := site()
	delete(pages, "/")
	m := Build(pages, nil)

	crumbs := m.Breadcrumbs("about/", "https://example.com")
	require.Equal(t, []Breadcrumb{{Title: "~", URL: "https://example.com/"}}, crumbs)
}

func TestNeighboursAndChildren(t *testing.T) {
	m := Build(site(), nil)

	higher, lower := m.Neighbours("blog/old/")
	require.Equal(t, "blog/undated/", higher)
	require.Equal(t, "blog/new/", lower)

	higher, lower = m.Neighbours("blog/pinned/")
	require.Equal(t, "blog/new/", higher)
	require.Empty(t, lower)

	require.Equal(t, []string{"blog/pinned/", "blog/new/", "blog/old/", "blog/undated/"}, m.ChildSlugs("blog/"))
	require.Equal(t, []string{"about/", "blog/"}, m.ChildSlugs("/"))
}

func TestDigest_StableForUnchangedInput(t *testing.T) {
	sets := badges.Sets{badges.RootSet: {{Filename: "a.png", URL: "#", ID: "a"}}}
	first := Build(site(), sets)
	second := Build(site(), sets)
	require.Equal(t, first.Digest(), second.Digest())

	changed := site()
	changed["about/"].Title = "About us"
	require.NotEqual(t, first.Digest(), Build(changed, sets).Digest())
}

func TestUnresolvedLinks(t *testing.T) {
	pages := site()
	pages["about/"].Links = []string{"/blog/", "/missing", "/img.png", "/blog/new#part"}
	m := Build(pages, nil)

	require.Equal(t, map[string][]string{"about/": {"/missing"}}, m.UnresolvedLinks())
}
