package pagegraph

import (
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/badges"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// Metadata is the per-generation page model. It is never mutated after Build.
type Metadata struct {
	PagePaths     map[string]string // slug -> source key
	Pages         content.Pages
	Summaries     map[string]*Summary
	NavItems      []NavItem
	SiblingOrders map[string][]string // prefix -> slugs, SortKey descending
	Badges        badges.Sets
	LastModified  time.Time
}

// Build derives Metadata from the loaded pages. Missing titles fall back to
// the slug and pages whose parent does not exist simply form their own group.
func Build(pages content.Pages, badgeSets badges.Sets) *Metadata {
	if pages == nil {
		pages = content.Pages{}
	}
	if badgeSets == nil {
		badgeSets = badges.Sets{}
	}
	slugs := pages.Slugs()

	m := &Metadata{
		PagePaths:     make(map[string]string, len(pages)),
		Pages:         pages,
		Badges:        badgeSets,
		LastModified:  pages.LastModified(),
		SiblingOrders: map[string][]string{},
	}

	for _, s := range slugs {
		p := pages[s]
		m.PagePaths[s] = p.RelPath
		if p.FrontMatter.Bool("in_nav") && p.Title != "" {
			m.NavItems = append(m.NavItems, NavItem{Title: p.Title, URL: "/" + s})
		}
		if slug.IsRoot(s) {
			continue
		}
		prefix := slug.Prefix(s)
		m.SiblingOrders[prefix] = append(m.SiblingOrders[prefix], s)
	}

	for _, group := range m.SiblingOrders {
		sort.SliceStable(group, func(i, j int) bool {
			return KeyFor(pages[group[j]]).Less(KeyFor(pages[group[i]]))
		})
	}

	m.Summaries = buildSummaries(pages, slugs)
	return m
}

func newSummary(p *content.PageRecord) *Summary {
	sortKey, _ := p.FrontMatter.Int("sort_key")
	return &Summary{
		Title:       p.DisplayTitle(),
		Permalink:   "/" + strings.TrimPrefix(p.Slug, "/"),
		Slug:        p.Slug,
		Description: p.FrontMatter.StringOr("description", ""),
		Date:        p.FrontMatter.StringOr("date", ""),
		Updated:     p.FrontMatter.StringOr("updated", ""),
		Summary:     p.FrontMatter.StringOr("summary", ""),
		ReadingTime: p.ReadingTime,
		SortKey:     int(sortKey),
	}
}

// buildSummaries processes pages deepest first. When a page is reached every
// page one segment below it is already finished and waiting in pending, so
// one pass attaches all children and no page can become its own descendant.
func buildSummaries(pages content.Pages, slugs []string) map[string]*Summary {
	order := append([]string(nil), slugs...)
	sort.SliceStable(order, func(i, j int) bool {
		return slug.Depth(order[i]) > slug.Depth(order[j])
	})

	out := make(map[string]*Summary, len(order))
	pending := map[string][]*Summary{}
	for _, s := range order {
		sum := newSummary(pages[s])
		children := pending[s]
		delete(pending, s)
		sort.SliceStable(children, func(i, j int) bool {
			return children[i].Key().Less(children[j].Key())
		})
		sum.Children = children
		out[s] = sum

		if parent := slug.Parent(s); parent != "" {
			pending[parent] = append(pending[parent], sum)
		}
	}
	return out
}

// RelativePath is the page's source key with a .md suffix, as exposed to
// templates for "edit this page" links.
func (m *Metadata) RelativePath(pageSlug string) (string, bool) {
	key, ok := m.PagePaths[pageSlug]
	if !ok {
		return "", false
	}
	return key + ".md", true
}

// Title returns the page title or the slug.
func (m *Metadata) Title(pageSlug string) string {
	if p, ok := m.Pages[pageSlug]; ok {
		return p.DisplayTitle()
	}
	return pageSlug
}

// Breadcrumbs lists the ancestors of a page, starting at the site root. The
// page itself is not included and the root page has no breadcrumbs.
func (m *Metadata) Breadcrumbs(pageSlug, baseURL string) []Breadcrumb {
	if slug.IsRoot(pageSlug) {
		return nil
	}
	base := strings.TrimSuffix(baseURL, "/")

	rootTitle := "~"
	if root, ok := m.Pages[slug.Root]; ok && root.Title != "" {
		rootTitle = root.Title
	}
	crumbs := []Breadcrumb{{Title: rootTitle, URL: base + "/"}}

	segs := slug.Segments(pageSlug)
	for i := 0; i < len(segs)-1; i++ {
		prefix := strings.Join(segs[:i+1], "/")
		title := prefix
		if p, ok := m.Pages[prefix+"/"]; ok && p.Title != "" {
			title = p.Title
		}
		crumbs = append(crumbs, Breadcrumb{Title: title, URL: base + "/" + prefix + "/"})
	}
	return crumbs
}

// Neighbours returns the previous ("higher") and next ("lower") siblings of a
// page in sibling order. Either may be empty.
func (m *Metadata) Neighbours(pageSlug string) (higher, lower string) {
	if slug.IsRoot(pageSlug) {
		return "", ""
	}
	group := m.SiblingOrders[slug.Prefix(pageSlug)]
	for i, s := range group {
		if s != pageSlug {
			continue
		}
		if i > 0 {
			higher = group[i-1]
		}
		if i+1 < len(group) {
			lower = group[i+1]
		}
		break
	}
	return higher, lower
}

// ChildSlugs lists the direct children of a page in SortKey ascending order.
func (m *Metadata) ChildSlugs(pageSlug string) []string {
	group := m.SiblingOrders[strings.TrimSuffix(pageSlug, "/")]
	out := make([]string, len(group))
	for i, s := range group {
		out[len(group)-1-i] = s
	}
	return out
}

// UnresolvedLinks maps each page to the extensionless site-relative links it
// makes that do not name a known page.
func (m *Metadata) UnresolvedLinks() map[string][]string {
	out := map[string][]string{}
	for _, s := range m.Pages.Slugs() {
		for _, link := range m.Pages[s].Links {
			target := link
			if i := strings.IndexAny(target, "?#"); i >= 0 {
				target = target[:i]
			}
			last := target[strings.LastIndex(target, "/")+1:]
			if strings.Contains(last, ".") {
				continue
			}
			if _, ok := m.Pages[slug.NormalizePath(target)]; !ok {
				out[s] = append(out[s], link)
			}
		}
	}
	return out
}
