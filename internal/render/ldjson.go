package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
)

const schemaContext = "https://schema.org"

// linkedData builds schema.org JSON-LD documents for templates.
type linkedData struct {
	cfg  *config.Config
	meta *pagegraph.Metadata
	now  func() time.Time
}

// JSON renders one document. kind is breadcrumb, site_navigation, website
// or article. An empty result means there is nothing to describe.
func (l *linkedData) JSON(kind, currentPage string) (template.JS, error) {
	page := strings.TrimPrefix(currentPage, "/")
	if page == "" {
		page = "/"
	}
	var doc map[string]any
	switch kind {
	case "breadcrumb":
		doc = l.breadcrumbList(page)
	case "site_navigation":
		doc = l.siteNavigation()
	case "website":
		doc = l.website(page)
	case "article":
		doc = l.article(page)
	default:
		return "", errors.ValidationError(fmt.Sprintf("unknown JSON-LD type %q", kind)).Build()
	}
	if doc == nil {
		return "", nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "encode JSON-LD").Build()
	}
	return template.JS(b), nil //nolint:gosec // encoding/json output
}

func (l *linkedData) author() map[string]any {
	name, ok := l.cfg.ExtraString("author")
	if !ok || name == "" {
		return nil
	}
	out := map[string]any{"@type": "Person", "name": name}
	if gh, ok := l.cfg.ExtraString("github"); ok && gh != "" {
		profile := "https://github.com/" + gh
		out["@id"] = profile
		out["url"] = profile
	}
	return out
}

func (l *linkedData) breadcrumbList(page string) map[string]any {
	crumbs := l.meta.Breadcrumbs(page, l.cfg.Site.BaseURL)
	if len(crumbs) == 0 {
		return nil
	}
	items := make([]map[string]any, len(crumbs))
	for i, c := range crumbs {
		items[i] = map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     c.Title,
			"item":     c.URL,
		}
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	}
}

func (l *linkedData) siteNavigation() map[string]any {
	names := make([]string, 0, len(l.meta.NavItems))
	urls := make([]string, 0, len(l.meta.NavItems))
	for _, n := range l.meta.NavItems {
		names = append(names, n.Title)
		urls = append(urls, n.URL)
	}
	return map[string]any{
		"@context": schemaContext,
		"@type":    "SiteNavigationElement",
		"name":     names,
		"url":      urls,
	}
}

func (l *linkedData) website(page string) map[string]any {
	doc := map[string]any{
		"@context":      schemaContext,
		"@type":         "WebSite",
		"name":          l.cfg.Site.Title,
		"url":           l.cfg.Site.BaseURL,
		"inLanguage":    l.cfg.Site.Language,
		"copyrightYear": l.now().UTC().Format("2006"),
	}
	if d := l.cfg.Site.Description; d != "" {
		doc["description"] = d
		doc["abstract"] = d
	}
	if a := l.author(); a != nil {
		doc["author"] = a
	}
	if lic, ok := l.cfg.ExtraString("license_url"); ok {
		doc["license"] = lic
	}
	if list, ok := l.cfg.Extra["nav_items"].([]any); ok {
		items := make([]map[string]any, 0, len(list))
		for i, raw := range list {
			entry, _ := raw.(map[string]any)
			title, _ := entry["title"].(string)
			url, _ := entry["url"].(string)
			items = append(items, map[string]any{
				"@type":    "ListItem",
				"position": i + 1,
				"name":     title,
				"url":      url,
				"desc":     "",
			})
		}
		doc["mainEntity"] = map[string]any{"@type": "ItemList", "itemListElement": items}
	}
	if bc := l.breadcrumbList(page); bc != nil {
		doc["breadcrumb"] = bc
	}
	return doc
}

func (l *linkedData) article(page string) map[string]any {
	url := permalink(l.cfg.Site.BaseURL, page)
	title := l.meta.Title(page)
	doc := map[string]any{
		"@context": schemaContext,
		"@id":      url,
		"@type":    "BlogPosting",
		"headline": title,
		"name":     title,
		"url":      url,
	}
	if a := l.author(); a != nil {
		doc["author"] = a
	}
	rec, ok := l.meta.Pages[page]
	if !ok {
		return doc
	}
	if d, ok := rec.FrontMatter.String("description"); ok {
		doc["description"] = d
	}
	if d, ok := rec.FrontMatter.String("date"); ok {
		doc["datePublished"] = atomDate(d)
	}
	if cats := rec.FrontMatter.Strings("categories"); len(cats) > 0 {
		doc["articleSection"] = cats[0]
	}
	if tags := rec.Tags(); len(tags) > 0 {
		doc["keywords"] = tags
	}
	return doc
}
