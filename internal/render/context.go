package render

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// Alternate is a link to another representation of a page.
type Alternate struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// pageKeys are set on the page object from derived data and are not
// repeated under page.Extra.
var pageKeys = map[string]bool{
	"title":         true,
	"slug":          true,
	"content":       true,
	"permalink":     true,
	"relative_path": true,
	"description":   true,
	"categories":    true,
	"tags":          true,
	"higher":        true,
	"lower":         true,
	"children":      true,
}

func alternates(pageSlug string) []Alternate {
	return []Alternate{
		{Type: "text/markdown", Title: "Markdown version", URL: "/" + pageSlug + "index.md"},
		{Type: "text/plain", Title: "Plain text version", URL: "/" + pageSlug + "index.txt"},
		{Type: "application/rss+xml", Title: "RSS Feed", URL: "/rss.xml"},
		{Type: "application/atom+xml", Title: "Atom Feed", URL: "/atom.xml"},
	}
}

// alternateSlug is the slug as used in alternate URLs: no leading slash, so
// the root page yields "/index.md".
func alternateSlug(s string) string {
	if slug.IsRoot(s) {
		return ""
	}
	return strings.TrimPrefix(s, "/")
}

// pageContext assembles the template data for one page. Front matter keys
// are also exposed at the top level; derived keys win over them except for
// title.
func pageContext(cfg *config.Config, meta *pagegraph.Metadata, rec *content.PageRecord, body template.HTML) map[string]any {
	c := map[string]any{
		"title":      rec.Slug,
		"alternates": alternates(alternateSlug(rec.Slug)),
	}
	for _, k := range rec.FrontMatter.Keys() {
		if f, ok := rec.FrontMatter.Fields()[k]; ok {
			c[k] = f.Interface()
		}
	}

	summaries := make(map[string]any, len(meta.Summaries))
	for s, sum := range meta.Summaries {
		summaries[s] = sum.Map()
	}

	c["content"] = body
	c["FrontMatter"] = rec.FrontMatter.Interface()
	c["badges"] = meta.Badges.ShuffledFor(rec.Slug)
	c["config"] = cfg
	c["current_page"] = "/" + strings.TrimPrefix(rec.Slug, "/")
	c["breadcrumbs"] = meta.Breadcrumbs(rec.Slug, cfg.Site.BaseURL)
	c["nav_items"] = meta.NavItems
	c["all_pages"] = summaries
	c["page"] = pageObject(cfg, meta, rec)
	return c
}

func pageObject(cfg *config.Config, meta *pagegraph.Metadata, rec *content.PageRecord) map[string]any {
	base := strings.TrimSuffix(cfg.Site.BaseURL, "/")
	link := func(s string) string { return base + "/" + strings.TrimPrefix(s, "/") }

	p := map[string]any{
		"title":     rec.DisplayTitle(),
		"slug":      slug.Base(rec.Slug),
		"content":   rec.RawContent,
		"permalink": link(rec.Slug),
	}
	if rel, ok := meta.RelativePath(rec.Slug); ok {
		p["relative_path"] = rel
	}
	if d, ok := rec.FrontMatter.String("description"); ok {
		p["description"] = d
	}

	extra := map[string]any{}
	for _, k := range rec.FrontMatter.Keys() {
		if pageKeys[k] {
			continue
		}
		v := rec.FrontMatter.Fields()[k].Interface()
		extra[k] = v
		p[k] = v
	}
	p["Extra"] = extra

	if names := rec.Categories(); len(names) > 0 {
		cats := make([]map[string]any, 0, len(names))
		for _, n := range names {
			s := strings.Trim(slug.Slugify(n), "/")
			cats = append(cats, map[string]any{"name": n, "slug": s, "permalink": base + "/categories/" + s + "/"})
		}
		p["categories"] = cats
	}
	if names := rec.Tags(); len(names) > 0 {
		tags := make([]map[string]any, 0, len(names))
		for _, n := range names {
			s := slug.Tag(n)
			tags = append(tags, map[string]any{"name": n, "slug": s, "permalink": base + "/tags/#" + s})
		}
		p["tags"] = tags
	}

	higher, lower := meta.Neighbours(rec.Slug)
	if higher != "" {
		p["higher"] = map[string]any{"title": meta.Title(higher), "permalink": link(higher)}
	}
	if lower != "" {
		p["lower"] = map[string]any{"title": meta.Title(lower), "permalink": link(lower)}
	}

	var children []map[string]any
	for _, s := range meta.ChildSlugs(rec.Slug) {
		sum, ok := meta.Summaries[s]
		if !ok {
			continue
		}
		children = append(children, map[string]any{
			"title":        sum.Title,
			"permalink":    link(s),
			"slug":         s,
			"description":  optionalString(sum.Description),
			"date":         optionalString(sum.Date),
			"updated":      optionalString(sum.Updated),
			"summary":      optionalString(sum.Summary),
			"reading_time": sum.ReadingTime,
		})
	}
	if len(children) > 0 {
		p["children"] = children
	}
	return p
}

func optionalString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
