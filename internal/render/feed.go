package render

import (
	"bytes"
	"encoding/xml"
	"html"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
)

const (
	feedStylesheet     = `<?xml-stylesheet type="text/xsl" href="/feed.xsl"?>` + "\n"
	defaultAtomUpdated = "2024-01-01T00:00:00Z"
	defaultAuthor      = "Unknown"
	descriptionLength  = 200
	atomNamespace      = "http://www.w3.org/2005/Atom"
	rfc1123GMT         = "Mon, 02 Jan 2006 15:04:05 GMT"
)

type feedItem struct {
	title       string
	link        string
	date        string
	description string
	categories  []string
}

type rssDoc struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	XmlnsAtom string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	AtomLink    rssSelf   `xml:"atom:link"`
	Items       []rssItem `xml:"item"`
}

type rssSelf struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
	Categories  []string `xml:"category"`
}

type atomDoc struct {
	XMLName xml.Name    `xml:"feed"`
	Xmlns   string      `xml:"xmlns,attr"`
	Title   string      `xml:"title"`
	Links   []atomLink  `xml:"link"`
	Updated string      `xml:"updated"`
	Author  atomAuthor  `xml:"author"`
	ID      string      `xml:"id"`
	Entries []atomEntry `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomEntry struct {
	Title      string         `xml:"title"`
	Link       atomLink       `xml:"link"`
	ID         string         `xml:"id"`
	Updated    string         `xml:"updated"`
	Summary    string         `xml:"summary"`
	Categories []atomCategory `xml:"category"`
}

// collectFeedItems returns dated pages in SortKey order, capped at limit.
func collectFeedItems(cfg *config.Config, meta *pagegraph.Metadata) []feedItem {
	type dated struct {
		key pagegraph.SortKey
		rec *content.PageRecord
	}
	var pages []dated
	for _, s := range meta.Pages.Slugs() {
		rec := meta.Pages[s]
		if _, ok := rec.FrontMatter.String("date"); !ok {
			continue
		}
		pages = append(pages, dated{key: pagegraph.KeyFor(rec), rec: rec})
	}
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].key.Less(pages[j].key) })

	limit := cfg.Site.FeedLimit
	if limit > 0 && len(pages) > limit {
		pages = pages[:limit]
	}

	items := make([]feedItem, 0, len(pages))
	for _, p := range pages {
		date, _ := p.rec.FrontMatter.String("date")
		items = append(items, feedItem{
			title:       p.rec.DisplayTitle(),
			link:        permalink(cfg.Site.BaseURL, p.rec.Slug),
			date:        date,
			description: feedDescription(p.rec),
			categories:  p.rec.Tags(),
		})
	}
	return items
}

var textPolicy = bluemonday.StrictPolicy()

// feedDescription is the description front matter, else the opening of the
// page reduced to plain text.
func feedDescription(rec *content.PageRecord) string {
	if d, ok := rec.FrontMatter.String("description"); ok {
		return d
	}
	src := rec.RenderedHTML
	if src == "" {
		src = rec.RawContent
	}
	text := html.UnescapeString(textPolicy.Sanitize(src))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= descriptionLength {
		return text
	}
	return string([]rune(text)[:descriptionLength])
}

func rssDate(s string) string {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC().Format(rfc1123GMT)
	}
	return s
}

func atomDate(s string) string {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC().Format("2006-01-02T15:04:05Z")
	}
	if strings.Contains(s, "T") {
		return s
	}
	return s + "T00:00:00Z"
}

func encodeFeed(doc any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString(feedStylesheet)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "encode feed").Build()
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// RSS renders an RSS 2.0 feed of the dated pages.
func RSS(cfg *config.Config, meta *pagegraph.Metadata) ([]byte, error) {
	base := strings.TrimSuffix(cfg.Site.BaseURL, "/")
	doc := rssDoc{
		Version:   "2.0",
		XmlnsAtom: atomNamespace,
		Channel: rssChannel{
			Title:       cfg.Site.Title,
			Link:        cfg.Site.BaseURL,
			Description: cfg.Site.Description,
			Language:    strings.ToLower(cfg.Site.Language),
			AtomLink:    rssSelf{Href: base + "/rss.xml", Rel: "self", Type: "application/rss+xml"},
		},
	}
	for _, it := range collectFeedItems(cfg, meta) {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       it.title,
			Link:        it.link,
			Description: it.description,
			PubDate:     rssDate(it.date),
			GUID:        it.link,
			Categories:  it.categories,
		})
	}
	return encodeFeed(doc)
}

// Atom renders an Atom feed of the dated pages.
func Atom(cfg *config.Config, meta *pagegraph.Metadata) ([]byte, error) {
	base := strings.TrimSuffix(cfg.Site.BaseURL, "/")
	author, ok := cfg.ExtraString("author")
	if !ok || author == "" {
		author = defaultAuthor
	}
	items := collectFeedItems(cfg, meta)
	updated := defaultAtomUpdated
	if len(items) > 0 {
		updated = atomDate(items[0].date)
	}
	doc := atomDoc{
		Xmlns: atomNamespace,
		Title: cfg.Site.Title,
		Links: []atomLink{
			{Href: cfg.Site.BaseURL},
			{Href: base + "/atom.xml", Rel: "self", Type: "application/atom+xml"},
		},
		Updated: updated,
		Author:  atomAuthor{Name: author},
		ID:      cfg.Site.BaseURL,
	}
	for _, it := range items {
		e := atomEntry{
			Title:   it.title,
			Link:    atomLink{Href: it.link},
			ID:      it.link,
			Updated: atomDate(it.date),
			Summary: it.description,
		}
		for _, c := range it.categories {
			e.Categories = append(e.Categories, atomCategory{Term: c})
		}
		doc.Entries = append(doc.Entries, e)
	}
	return encodeFeed(doc)
}
