package pagegraph

import (
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/content"
)

// SortKey orders pages: Priority ascending, then Date descending (dated before
// undated), then Slug ascending.
type SortKey struct {
	Priority int
	Date     string // ISO date; empty when the page is undated
	Slug     string
}

// KeyFor reads sort_key and date from a record's front matter.
func KeyFor(p *content.PageRecord) SortKey {
	k := SortKey{Slug: p.Slug}
	if n, ok := p.FrontMatter.Int("sort_key"); ok {
		k.Priority = int(n)
	}
	k.Date = p.FrontMatter.StringOr("date", "")
	return k
}

// Compare returns -1, 0 or 1.
func (k SortKey) Compare(o SortKey) int {
	if k.Priority != o.Priority {
		if k.Priority < o.Priority {
			return -1
		}
		return 1
	}
	switch {
	case k.Date != "" && o.Date != "":
		if c := strings.Compare(o.Date, k.Date); c != 0 {
			return c
		}
	case k.Date != "":
		return -1
	case o.Date != "":
		return 1
	}
	return strings.Compare(k.Slug, o.Slug)
}

// Less reports k < o.
func (k SortKey) Less(o SortKey) bool { return k.Compare(o) < 0 }
