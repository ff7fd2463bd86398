package markdown

import (
	"bytes"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Options configures a Renderer.
type Options struct {
	// HighlightStyle names a chroma style. Unknown names fall back to chroma's default.
	HighlightStyle string
}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New builds a Renderer.
func New(opts Options) *Renderer {
	name := opts.HighlightStyle
	if name == "" {
		name = DefaultStyle
	}
	code := &codeBlockRenderer{style: styles.Get(name)}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
			parser.WithASTTransformers(util.Prioritized(headingAnchors{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(code, 100)),
		),
	)
	return &Renderer{md: md}
}

// Render converts src to HTML.
func (r *Renderer) Render(src string) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(newHeadingIDs()))
	if err := r.md.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return "", errors.WrapError(err, errors.CategoryRender, "render markdown").Build()
	}
	return buf.String(), nil
}
