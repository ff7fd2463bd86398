// Package rewrite turns relative and site-relative URLs in rendered HTML into
// absolute ones.
//
// It works on the golang.org/x/net/html token stream in a single forward pass
// and re-serializes each token, so the rest of the document is left as it
// was. Input is assumed to be well-formed markup produced by the site's own
// templates; hostile HTML is out of scope.
package rewrite

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// rawTextElements are emitted verbatim between their start and end tags.
var rawTextElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
	"iframe":   {},
	"noembed":  {},
	"noframes": {},
	"xmp":      {},
}

var skipPrefixes = []string{"#", "mailto:", "javascript:", "data:", "tel:"}

// Escape applies the attribute/text escaping used for every re-emitted value.
func Escape(s string) string { return escaper.Replace(s) }

// Rewrite resolves href and src attributes (and action on forms) against the
// site base URL. Site-relative values ("/x") resolve against siteBaseURL;
// document-relative ones resolve against siteBaseURL joined with pagePath,
// which is treated as a document URL (a trailing slash is ignored). Values
// that are already absolute, fragments and mailto/javascript/data/tel links
// are kept. A value that fails to resolve is kept as is.
func Rewrite(src, siteBaseURL, pagePath string) (string, error) {
	r, err := newResolver(siteBaseURL, pagePath)
	if err != nil {
		return "", err
	}

	var out strings.Builder
	out.Grow(len(src) + len(src)/8)

	z := html.NewTokenizer(strings.NewReader(src))
	inRaw := false
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return out.String(), nil
			}
			return "", errors.WrapError(z.Err(), errors.CategoryRender, "tokenize html").Build()

		case html.StartTagToken, html.SelfClosingTagToken:
			name := r.writeStartTag(&out, z, tt == html.SelfClosingTagToken)
			if _, raw := rawTextElements[name]; raw && tt == html.StartTagToken {
				inRaw = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			inRaw = false
			out.WriteString("</")
			out.Write(name)
			out.WriteByte('>')

		case html.TextToken:
			if inRaw {
				out.Write(z.Raw())
			} else {
				out.WriteString(Escape(string(z.Text())))
			}

		case html.CommentToken, html.DoctypeToken:
			out.Write(z.Raw())
		}
	}
}

func (r *resolver) writeStartTag(out *strings.Builder, z *html.Tokenizer, selfClosing bool) string {
	rawName, hasAttr := z.TagName()
	name := string(rawName)
	out.WriteByte('<')
	out.WriteString(name)

	for hasAttr {
		var key, val []byte
		key, val, hasAttr = z.TagAttr()
		k := string(key)
		v := string(val)
		if rewritable(name, k) {
			v = r.resolve(v)
		}
		out.WriteByte(' ')
		out.WriteString(k)
		out.WriteString(`="`)
		out.WriteString(Escape(v))
		out.WriteByte('"')
	}

	if selfClosing {
		out.WriteString(" />")
	} else {
		out.WriteByte('>')
	}
	return name
}

func rewritable(tag, attr string) bool {
	switch attr {
	case "href", "src":
		return true
	case "action":
		return tag == "form"
	}
	return false
}

type resolver struct {
	site *url.URL
	page *url.URL
	// self keeps the page path as given, trailing slash included, for query-only refs.
	self *url.URL
}

func newResolver(siteBaseURL, pagePath string) (*resolver, error) {
	site, err := url.Parse(strings.TrimSpace(siteBaseURL))
	if err != nil || site.Scheme == "" || site.Host == "" {
		b := errors.ValidationError("site base URL must be absolute").WithContext("base_url", siteBaseURL)
		if err != nil {
			b = errors.WrapError(err, errors.CategoryValidation, "parse site base URL").WithContext("base_url", siteBaseURL)
		}
		return nil, b.Build()
	}
	if site.Path == "" {
		site.Path = "/"
	}

	doc := "/" + strings.Trim(pagePath, "/")
	page := site.ResolveReference(&url.URL{Path: doc})
	self := site.ResolveReference(&url.URL{Path: "/" + strings.TrimLeft(pagePath, "/")})
	return &resolver{site: site, page: page, self: self}, nil
}

func (r *resolver) resolve(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	for _, p := range skipPrefixes {
		if strings.HasPrefix(trimmed, p) {
			return value
		}
	}

	ref, err := url.Parse(trimmed)
	if err != nil {
		return value
	}
	if ref.Scheme != "" {
		return value
	}
	if strings.HasPrefix(trimmed, "/") {
		return r.site.ResolveReference(ref).String()
	}
	if strings.HasPrefix(trimmed, "?") {
		return r.self.ResolveReference(ref).String()
	}
	return r.page.ResolveReference(ref).String()
}
