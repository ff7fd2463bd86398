package content

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

func page(slugValue, title string, tags ...string) *PageRecord {
	fields := map[string]frontmatter.Value{}
	if len(tags) > 0 {
		items := make([]frontmatter.Value, len(tags))
		for i, tag := range tags {
			items[i] = frontmatter.String(tag)
		}
		fields["taxonomies"] = frontmatter.Map(map[string]frontmatter.Value{"tags": frontmatter.Array(items...)})
	}
	return &PageRecord{Slug: slugValue, Title: title, FrontMatter: frontmatter.Map(fields)}
}

func TestBuildTagsIndex_SortedTagsAndTitles(t *testing.T) {
	pages := Pages{
		"b/": page("b/", "Zeta", "rust", "Type Theory"),
		"a/": page("a/", "Alpha", "rust"),
		"c/": page("c/", ""),
	}

	got := BuildTagsIndex(pages)

	want := "All articles organized by tags:\n\n" +
		"### Type Theory {#type-theory}\n\n- [Zeta](/b/)\n\n" +
		"### rust {#rust}\n\n- [Alpha](/a/)\n- [Zeta](/b/)\n\n" +
		"### ~untagged {#untagged}\n\n- [c/](/c/)\n\n"
	require.Equal(t, want, got)
}

func TestBuildTagsIndex_NoPages_Empty(t *testing.T) {
	require.Empty(t, BuildTagsIndex(Pages{}))
}

func TestPageRecord_Tags_PrefersDirectField(t *testing.T) {
	p := &PageRecord{FrontMatter: frontmatter.Map(map[string]frontmatter.Value{
		"tags":       frontmatter.Array(frontmatter.String("direct")),
		"taxonomies": frontmatter.Map(map[string]frontmatter.Value{"tags": frontmatter.Array(frontmatter.String("nested"))}),
	})}
	require.Equal(t, []string{"direct"}, p.Tags())
}

func TestReadingTime(t *testing.T) {
	require.Equal(t, 1, ReadingTime(""))
	require.Equal(t, 1, ReadingTime("one two three"))
	words := make([]byte, 0, 251*2)
	for i := 0; i < 251; i++ {
		words = append(words, 'w', ' ')
	}
	require.Equal(t, 2, ReadingTime(string(words)))
}
