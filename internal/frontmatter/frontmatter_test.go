package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	fm, body, format, err := Split(input)
	require.NoError(t, err)
	require.Equal(t, FormatNone, format)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, format, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "key: value\n", string(fm))
	require.Equal(t, "# Title\n", string(body))
}

func TestSplit_TOMLFrontmatter_DropsOneBlankLine(t *testing.T) {
	fm, body, format, err := Split([]byte("+++\ntitle = \"x\"\n+++\n\nBody\n"))
	require.NoError(t, err)
	require.Equal(t, FormatTOML, format)
	require.Equal(t, "title = \"x\"\n", string(fm))
	require.Equal(t, "Body\n", string(body))
}

func TestSplit_ClosingDelimiterAtEOF_EmptyBody(t *testing.T) {
	fm, body, format, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Equal(t, "title: x\n", string(fm))
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	input := []byte("---\nkey: value\n# Title\n")

	_, body, format, err := Split(input)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
	require.Equal(t, FormatNone, format)
	require.Equal(t, input, body)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, _, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, "key: value\r\n", string(fm))
	require.Equal(t, "# Title\r\n", string(body))
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	fm, body, format, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.Equal(t, FormatYAML, format)
	require.Empty(t, fm)
	require.Equal(t, "# Title\n", string(body))
}

func TestSplit_PreservesTrailingSpacesInBody(t *testing.T) {
	_, body, _, err := Split([]byte("---\na: 1\n---\nline one  \nline two\n"))
	require.NoError(t, err)
	require.Equal(t, "line one  \nline two\n", string(body))
}

func TestParse_YAML(t *testing.T) {
	doc, err := Parse("---\ntitle: Hello\nsort_key: 3\ndraft: true\ntags: [go, web]\ntaxonomies:\n  categories: [notes]\ndate: 2024-05-01\n---\nBody")
	require.NoError(t, err)
	require.True(t, doc.HasMeta())
	require.Equal(t, "Body", doc.Body)

	title, ok := doc.Meta.String("title")
	require.True(t, ok)
	require.Equal(t, "Hello", title)

	n, ok := doc.Meta.Int("sort_key")
	require.True(t, ok)
	require.Equal(t, int64(3), n)

	require.True(t, doc.Meta.Bool("draft"))
	require.Equal(t, []string{"go", "web"}, doc.Meta.Strings("tags"))
	require.Equal(t, []string{"notes"}, doc.Meta.Strings("taxonomies.categories"))

	date, ok := doc.Meta.String("date")
	require.True(t, ok)
	require.Equal(t, "2024-05-01", date)
}

func TestParse_TOML_DatetimeBecomesDate(t *testing.T) {
	doc, err := Parse("+++\ntitle = \"T\"\ndate = 2024-03-04\nupdated = 2024-03-05T10:00:00Z\n[extra]\nfoo = 1\n+++\nBody")
	require.NoError(t, err)
	require.Equal(t, FormatTOML, doc.Format)
	require.Equal(t, "2024-03-04", doc.Meta.StringOr("date", ""))
	require.Equal(t, "2024-03-05", doc.Meta.StringOr("updated", ""))
	n, ok := doc.Meta.Int("extra.foo")
	require.True(t, ok)
	require.Equal(t, int64(1), n)
}

func TestParse_DashDelimitedTOML_FallsBack(t *testing.T) {
	doc, err := Parse("---\ntitle = \"Dash\"\n---\nBody")
	require.NoError(t, err)
	require.Equal(t, FormatTOML, doc.Format)
	require.Equal(t, "Dash", doc.Meta.StringOr("title", ""))
}

func TestParse_Malformed_ReturnsBodyAndError(t *testing.T) {
	doc, err := Parse("---\ntitle: [unclosed\n---\nBody")
	require.Error(t, err)
	require.False(t, doc.HasMeta())
	require.Equal(t, "Body", doc.Body)
}

func TestParse_NoFrontmatter(t *testing.T) {
	doc, err := Parse("just text")
	require.NoError(t, err)
	require.False(t, doc.HasMeta())
	require.Equal(t, "just text", doc.Body)
}
