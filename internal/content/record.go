package content

import (
	"sort"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// SourceFormat is the kind of file a page was loaded from.
type SourceFormat int

const (
	FormatMarkdown SourceFormat = iota // .md, rendered with the markdown renderer
	FormatTemplate                     // .html, expanded as a template by the renderer
)

func (f SourceFormat) String() string {
	if f == FormatTemplate {
		return "html"
	}
	return "md"
}

// Ext is the source file extension including the dot.
func (f SourceFormat) Ext() string { return "." + f.String() }

// PageRecord is one page as read from disk. Records are immutable once the
// loader returns them.
type PageRecord struct {
	Slug         string
	RelPath      string // source path relative to the pages dir, without extension
	FrontMatter  frontmatter.Value
	RawContent   string
	RenderedHTML string
	Links        []string
	LastModified time.Time
	Format       SourceFormat
	Title        string
	ReadingTime  int
	Fingerprint  string
}

// DisplayTitle is the front matter title, or the slug when none is set.
func (p *PageRecord) DisplayTitle() string {
	if p.Title != "" {
		return p.Title
	}
	return p.Slug
}

// RelativeSourcePath is the source file name relative to the pages dir.
func (p *PageRecord) RelativeSourcePath() string { return p.RelPath + p.Format.Ext() }

// Tags reads `tags`, falling back to `taxonomies.tags`.
func (p *PageRecord) Tags() []string {
	if p.FrontMatter.Has("tags") {
		return p.FrontMatter.Strings("tags")
	}
	return p.FrontMatter.Strings("taxonomies.tags")
}

// Categories reads `categories`, falling back to `taxonomies.categories`.
func (p *PageRecord) Categories() []string {
	if p.FrontMatter.Has("categories") {
		return p.FrontMatter.Strings("categories")
	}
	return p.FrontMatter.Strings("taxonomies.categories")
}

// IsDraft reports `draft: true`.
func (p *PageRecord) IsDraft() bool { return p.FrontMatter.Bool("draft") }

// Pages maps slug to record.
type Pages map[string]*PageRecord

// Slugs returns the slugs in sorted order.
func (ps Pages) Slugs() []string {
	out := make([]string, 0, len(ps))
	for s := range ps {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// LastModified is the newest modification time over all pages.
func (ps Pages) LastModified() time.Time {
	var latest time.Time
	for _, p := range ps {
		if p.LastModified.After(latest) {
			latest = p.LastModified
		}
	}
	return latest
}

// ReadingTime is max(1, ceil(words/250)).
func ReadingTime(text string) int {
	words := len(strings.Fields(text))
	minutes := (words + 249) / 250
	if minutes < 1 {
		return 1
	}
	return minutes
}
