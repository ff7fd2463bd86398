package render

import (
	"sort"
	"time"
)

// Page is the rendered form of one page record.
type Page struct {
	Slug         string
	Title        string
	HTML         []byte
	Markdown     []byte // raw markdown, or the HTML body converted for template pages
	LastModified time.Time
	HTMLETag     string
	SourceETag   string
}

// Site is one generation of rendered output. It is never mutated after
// Render returns.
type Site struct {
	Generation   string
	Pages        map[string]*Page
	Aliases      map[string]string // alias path without leading slash -> target slug
	Sitemap      []byte
	RSS          []byte
	Atom         []byte
	LastModified time.Time
}

// Empty is a site with no pages, used before the first build completes.
func Empty() *Site {
	return &Site{Pages: map[string]*Page{}, Aliases: map[string]string{}}
}

// Slugs lists page slugs in sorted order.
func (s *Site) Slugs() []string {
	out := make([]string, 0, len(s.Pages))
	for k := range s.Pages {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// AliasPaths lists alias paths in sorted order.
func (s *Site) AliasPaths() []string {
	out := make([]string, 0, len(s.Aliases))
	for k := range s.Aliases {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
