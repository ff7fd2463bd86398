package markdown

import (
	"bytes"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// codeBlockRenderer highlights fenced code blocks. Blocks without a language
// render as plain escaped <pre><code>; unknown languages keep a language-*
// class so client-side highlighters can still pick them up.
type codeBlockRenderer struct {
	style *chroma.Style
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		code.Write(seg.Value(source))
	}

	lang := string(n.Language(source))
	if lang == "" {
		_, _ = w.WriteString("<pre><code>")
		_, _ = w.Write(util.EscapeHTML(code.Bytes()))
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}

	escLang := util.EscapeHTML([]byte(lang))
	_, _ = w.WriteString(`<pre data-lang="`)
	_, _ = w.Write(escLang)

	if lexer := lexers.Get(lang); lexer != nil {
		if err := r.highlight(w, lexer, code.String()); err == nil {
			return ast.WalkSkipChildren, nil
		}
	}

	_, _ = w.WriteString(`"><code class="language-`)
	_, _ = w.Write(escLang)
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(code.Bytes()))
	_, _ = w.WriteString("</code></pre>\n")
	return ast.WalkSkipChildren, nil
}

// highlight finishes the open <pre data-lang=" tag. Tokenising happens before
// anything is written so a failure leaves the caller free to fall back.
func (r *codeBlockRenderer) highlight(w util.BufWriter, lexer chroma.Lexer, code string) error {
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return err
	}
	var out bytes.Buffer
	formatter := chromahtml.New(chromahtml.PreventSurroundingPre(true))
	if err := formatter.Format(&out, r.style, it); err != nil {
		return err
	}
	_, _ = w.WriteString(`"><code>`)
	_, _ = w.Write(out.Bytes())
	_, _ = w.WriteString("</code></pre>\n")
	return nil
}
