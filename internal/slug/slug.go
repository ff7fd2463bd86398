// Package slug turns content paths into URL slugs and normalizes request paths
// to the same key space.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Root is the slug of the site's index page.
const Root = "/"

// alternateSuffixes are request suffixes that address a page in another
// representation and therefore keep their shape during normalization.
var alternateSuffixes = []string{".md", ".txt", ".html"}

// Fold strips combining marks so "Café" becomes "Cafe".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify converts a content key (relative path without extension) into a
// page slug with a trailing slash. Index files collapse into their directory,
// segments starting with "_" are transparent, and the root index yields Root.
func Slugify(key string) string {
	key = strings.Trim(key, "/")
	switch {
	case key == "index" || key == "_index":
		key = ""
	case strings.HasSuffix(key, "/index"):
		key = strings.TrimSuffix(key, "/index")
	case strings.HasSuffix(key, "/_index"):
		key = strings.TrimSuffix(key, "/_index")
	}

	segments := strings.Split(key, "/")
	kept := segments[:0]
	for _, seg := range segments {
		if strings.HasPrefix(seg, "_") {
			continue
		}
		kept = append(kept, seg)
	}
	joined := strings.ToLower(Fold(strings.Join(kept, "/")))

	var b strings.Builder
	for _, r := range joined {
		switch {
		case r == ' ' || r == '_':
			b.WriteRune('-')
		case r == '-' || r == '/' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	parts := strings.Split(b.String(), "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = collapseHyphens(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return Root
	}
	return strings.Join(out, "/") + "/"
}

// Tag slugifies a tag or heading for fragment identifiers. No trailing slash.
func Tag(s string) string {
	s = strings.ToLower(Fold(s))
	var b strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('-')
	}
	return collapseHyphens(b.String())
}

func collapseHyphens(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' })
	return strings.Join(fields, "-")
}

// NormalizePath maps a request path onto the slug key space: the leading
// slash is dropped and a trailing slash ensured, unless the path names an
// alternate representation (".md", ".txt", ".html").
func NormalizePath(p string) string {
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return Root
	}
	if strings.HasSuffix(p, "/") || HasAlternateSuffix(p) {
		return p
	}
	return p + "/"
}

// HasAlternateSuffix reports whether p ends in an alternate-format suffix.
func HasAlternateSuffix(p string) bool {
	for _, suf := range alternateSuffixes {
		if strings.HasSuffix(p, suf) {
			return true
		}
	}
	return false
}

// Segments splits a slug into its path segments. Root has none.
func Segments(s string) []string {
	s = strings.Trim(s, "/")
	if s == "" {
		return nil
	}
	return strings.Split(s, "/")
}

// Depth is the number of segments in a slug.
func Depth(s string) int { return len(Segments(s)) }

// Base is the final segment of a slug, or "" for Root.
func Base(s string) string {
	segs := Segments(s)
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}

// Prefix is the sibling-group key of a slug: the slug without its last
// segment and without a trailing slash. Top-level pages share prefix "".
func Prefix(s string) string {
	segs := Segments(s)
	if len(segs) <= 1 {
		return ""
	}
	return strings.Join(segs[:len(segs)-1], "/")
}

// Parent returns the slug of the containing section, Root for top-level
// pages and "" for Root itself.
func Parent(s string) string {
	if IsRoot(s) {
		return ""
	}
	p := Prefix(s)
	if p == "" {
		return Root
	}
	return p + "/"
}

// IsRoot reports whether s addresses the site index.
func IsRoot(s string) bool { return strings.Trim(s, "/") == "" }

// IsChild reports whether child sits exactly one segment below parent.
func IsChild(parent, child string) bool {
	if Depth(child) != Depth(parent)+1 {
		return false
	}
	return IsRoot(parent) || strings.HasPrefix(child, parent)
}

// StableHash is a polynomial rolling hash (h*31 + rune) that never changes
// between releases, used for deterministic shuffles.
func StableHash(s string) uint64 {
	var h uint64
	for _, r := range s {
		h = h*31 + uint64(r)
	}
	return h
}
