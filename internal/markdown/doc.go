// Package markdown renders page bodies to HTML with goldmark.
//
// Rendering enables GitHub-flavoured extensions, footnotes, raw HTML passthrough
// and heading attributes. Every heading gets an id (explicit `{#id}` wins,
// otherwise one is derived from the heading text) and a trailing "§" anchor
// linking to itself. Fenced code with a known language is highlighted with
// chroma using inline styles.
package markdown
