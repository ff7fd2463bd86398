package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_CollectsAllKinds(t *testing.T) {
	body := []byte("[a](/about/) ![img](./pic.png) <https://example.com>\n\n[ref]: /ref/\n")

	links := ExtractLinks(body)

	require.Contains(t, links, Link{Kind: LinkKindInline, Destination: "/about/"})
	require.Contains(t, links, Link{Kind: LinkKindImage, Destination: "./pic.png"})
	require.Contains(t, links, Link{Kind: LinkKindAuto, Destination: "https://example.com"})
	require.Contains(t, links, Link{Kind: LinkKindReferenceDefinition, Destination: "/ref/"})
}

func TestExtractLinks_IgnoresCode(t *testing.T) {
	links := ExtractLinks([]byte("```\n[x](/nope/)\n```\n\n`[y](/nope/)`\n"))
	require.Empty(t, links)
}
