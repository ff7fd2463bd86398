package pagegraph

import (
	"encoding/hex"
	"io"
	"sort"
	"strconv"

	"github.com/zeebo/blake3"
)

// Digest is a blake3 hash over a canonical encoding of the metadata. Equal
// inputs produce equal digests.
func (m *Metadata) Digest() string {
	h := blake3.New()
	field := func(parts ...string) {
		for _, p := range parts {
			_, _ = io.WriteString(h, strconv.Itoa(len(p)))
			_, _ = io.WriteString(h, ":")
			_, _ = io.WriteString(h, p)
		}
		_, _ = io.WriteString(h, "\n")
	}

	for _, s := range m.Pages.Slugs() {
		p := m.Pages[s]
		field("page", s, m.PagePaths[s], p.Title, p.Fingerprint, p.Format.String(),
			strconv.FormatInt(p.LastModified.UnixNano(), 10))
		if sum, ok := m.Summaries[s]; ok {
			kids := make([]string, 0, len(sum.Children)+1)
			kids = append(kids, "children", s)
			for _, c := range sum.Children {
				kids = append(kids, c.Slug)
			}
			field(kids...)
		}
	}

	prefixes := make([]string, 0, len(m.SiblingOrders))
	for p := range m.SiblingOrders {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		field(append([]string{"siblings", p}, m.SiblingOrders[p]...)...)
	}

	for _, n := range m.NavItems {
		field("nav", n.Title, n.URL)
	}
	for _, name := range m.Badges.Names() {
		for _, b := range m.Badges[name] {
			field("badge", name, b.Filename, b.URL, b.ID)
		}
	}
	field("last_modified", strconv.FormatInt(m.LastModified.UnixNano(), 10))

	return hex.EncodeToString(h.Sum(nil))
}
