package markdown

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

const anchorTitle = "Copy link to this section"

// headingIDs derives heading ids with slug.Tag and keeps them unique within a
// document by suffixing repeats with -1, -2, ...
type headingIDs struct {
	seen map[string]struct{}
}

func newHeadingIDs() *headingIDs {
	return &headingIDs{seen: map[string]struct{}{}}
}

func (s *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := slug.Tag(string(value))
	if base == "" {
		base = "heading"
	}
	id := base
	for i := 1; ; i++ {
		if _, dup := s.seen[id]; !dup {
			break
		}
		id = base + "-" + strconv.Itoa(i)
	}
	s.seen[id] = struct{}{}
	return []byte(id)
}

func (s *headingIDs) Put(value []byte) {
	s.seen[string(value)] = struct{}{}
}

// headingAnchors appends a self-link "§" to every heading that has an id.
type headingAnchors struct{}

func (headingAnchors) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		raw, ok := h.AttributeString("id")
		if !ok {
			return ast.WalkSkipChildren, nil
		}
		var id string
		switch v := raw.(type) {
		case []byte:
			id = string(v)
		case string:
			id = v
		default:
			return ast.WalkSkipChildren, nil
		}

		link := ast.NewLink()
		link.Destination = []byte("#" + id)
		link.Title = []byte(anchorTitle)
		link.AppendChild(link, ast.NewString([]byte("§")))
		h.AppendChild(h, link)
		return ast.WalkSkipChildren, nil
	})
}
