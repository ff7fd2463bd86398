package render

import (
	"bytes"
	"encoding/xml"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// permalink is the absolute URL of a page. The root page is the bare base.
func permalink(baseURL, pageSlug string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if slug.IsRoot(pageSlug) {
		return base
	}
	return base + "/" + strings.TrimPrefix(pageSlug, "/")
}

// sitemapLastMod prefers updated over date. A configured baseline replaces
// the page date when it is later or the page has none.
func sitemapLastMod(page, baseline string) string {
	if baseline != "" && (page == "" || baseline > page) {
		return baseline
	}
	return page
}

// Sitemap renders sitemap.xml with one entry per page in slug order.
func Sitemap(cfg *config.Config, meta *pagegraph.Metadata) ([]byte, error) {
	set := urlSet{Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, s := range meta.Pages.Slugs() {
		fm := meta.Pages[s].FrontMatter
		date := fm.StringOr("updated", fm.StringOr("date", ""))
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     permalink(cfg.Site.BaseURL, s),
			LastMod: sitemapLastMod(date, cfg.Site.BaselineDate),
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(set); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "encode sitemap").Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
