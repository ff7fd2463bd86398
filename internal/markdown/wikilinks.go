package markdown

import (
	"fmt"
	"regexp"
)

var wikiLinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\]`)

// ProcessLinks rewrites [[target]] into <a href="/target">target</a> and
// returns the targets in order of appearance. Everything else, including
// trailing whitespace that encodes hard breaks, is left alone.
func ProcessLinks(content string) (string, []string) {
	var links []string
	out := wikiLinkPattern.ReplaceAllStringFunc(content, func(m string) string {
		target := wikiLinkPattern.FindStringSubmatch(m)[1]
		links = append(links, target)
		return fmt.Sprintf(`<a href="/%s">%s</a>`, target, target)
	})
	return out, links
}
