package content

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

const (
	// TagsSlug is where the generated tag index lives.
	TagsSlug = "tags/"
	// UntaggedTag collects pages without tags.
	UntaggedTag = "~untagged"
)

// BuildTagsIndex renders the markdown body of the tags page: one heading per
// tag, sorted by name, listing its pages sorted by title.
func BuildTagsIndex(pages Pages) string {
	byTag := map[string][]*PageRecord{}
	for _, s := range pages.Slugs() {
		p := pages[s]
		tags := p.Tags()
		if len(tags) == 0 {
			byTag[UntaggedTag] = append(byTag[UntaggedTag], p)
			continue
		}
		for _, t := range tags {
			byTag[t] = append(byTag[t], p)
		}
	}
	if len(byTag) == 0 {
		return ""
	}

	names := make([]string, 0, len(byTag))
	for name := range byTag {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("All articles organized by tags:\n\n")
	for _, name := range names {
		tagged := byTag[name]
		sort.SliceStable(tagged, func(i, j int) bool {
			return tagged[i].DisplayTitle() < tagged[j].DisplayTitle()
		})
		fmt.Fprintf(&b, "### %s {#%s}\n\n", name, slug.Tag(name))
		for _, p := range tagged {
			fmt.Fprintf(&b, "- [%s](/%s)\n", html.EscapeString(p.DisplayTitle()), p.Slug)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (l *Loader) tagsPage(pages Pages) *PageRecord {
	body := BuildTagsIndex(pages)
	if body == "" {
		return nil
	}
	meta := frontmatter.Map(map[string]frontmatter.Value{
		"title":    frontmatter.String("Tags"),
		"template": frontmatter.String("page.html"),
	})
	rec := &PageRecord{
		Slug:         TagsSlug,
		RelPath:      "tags",
		FrontMatter:  meta,
		RawContent:   body,
		LastModified: pages.LastModified(),
		Format:       FormatMarkdown,
		Title:        "Tags",
		ReadingTime:  ReadingTime(body),
		Fingerprint:  Fingerprint(meta, body),
	}
	out, err := l.opts.Markdown.Render(body)
	if err != nil {
		l.logger.Warn("Markdown render failed", logfields.Slug(TagsSlug), logfields.Error(err))
	}
	rec.RenderedHTML = out
	return rec
}
