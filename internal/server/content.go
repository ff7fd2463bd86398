package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/assets"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

const allowedMethods = "GET, HEAD, OPTIONS"

const (
	typeHTML     = "text/html; charset=utf-8"
	typeMarkdown = "text/markdown; charset=utf-8"
)

// resource is a fully materialised response body with its validators.
type resource struct {
	name         string // used for the Cache-Control lookup
	body         []byte
	contentType  string
	lastModified time.Time
	etag         string
}

// readMethod answers OPTIONS and rejects anything but GET and HEAD.
// It reports whether the caller should go on serving the request.
func readMethod(w http.ResponseWriter, r *http.Request) bool {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		return true
	case http.MethodOptions:
		w.Header().Set("Allow", allowedMethods)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
	return false
}

// serveContent is the catch-all handler.
func (s *Server) serveContent(w http.ResponseWriter, r *http.Request) {
	if !readMethod(w, r) {
		return
	}

	res, redirect, ok := resolve(s.slot.Load(), r.URL.Path)
	switch {
	case redirect != "":
		w.Header().Set("Location", redirect)
		w.WriteHeader(http.StatusMovedPermanently)
	case ok:
		s.serveResource(w, r, res)
	default:
		s.adapter.WriteErrorResponse(w, r, errors.NotFoundError("no such resource").
			WithContext("path", r.URL.Path).
			Build())
	}
}

// resolve maps a request path onto the snapshot. It returns either a
// resource, a redirect location, or neither.
func resolve(snap site.Snapshot, requestPath string) (resource, string, bool) {
	if res, ok := reserved(snap.Site, requestPath); ok {
		return res, "", true
	}
	if target, ok := alias(snap.Site, requestPath); ok {
		return resource{}, "/" + strings.TrimPrefix(target, "/"), false
	}
	if f, key, ok := snap.Static.Lookup(requestPath); ok {
		return staticResource(key, f), "", true
	}
	if res, ok := page(snap.Site, requestPath); ok {
		return res, "", true
	}
	return resource{}, "", false
}

func reserved(s *render.Site, requestPath string) (resource, bool) {
	var body []byte
	var ctype string
	switch requestPath {
	case "/sitemap.xml":
		body, ctype = s.Sitemap, "text/xml; charset=utf-8"
	case "/rss.xml":
		body, ctype = s.RSS, "application/xml; charset=utf-8"
	case "/atom.xml":
		body, ctype = s.Atom, "application/xml; charset=utf-8"
	default:
		return resource{}, false
	}
	return resource{
		name:         requestPath,
		body:         body,
		contentType:  ctype,
		lastModified: s.LastModified,
		etag:         assets.ETag(body),
	}, true
}

func alias(s *render.Site, requestPath string) (string, bool) {
	key := strings.TrimPrefix(requestPath, "/")
	if target, ok := s.Aliases[key]; ok {
		return target, true
	}
	// "/old/post" also reaches the alias declared as "/old/post/".
	if target, ok := s.Aliases[slug.NormalizePath(requestPath)]; ok {
		return target, true
	}
	return "", false
}

func staticResource(key string, f assets.File) resource {
	return resource{
		name:         key,
		body:         f.Data,
		contentType:  contentType(key),
		lastModified: f.LastModified,
		etag:         f.ETag,
	}
}

// alternates in match order; "index.*" forms must be tried before the bare
// extension so "blog/index.md" addresses "blog/" rather than "blog/index/".
var alternates = []struct {
	suffix   string
	markdown bool
}{
	{"index.md", true},
	{"index.txt", true},
	{"index.html", false},
	{".md", true},
	{".txt", true},
	{".html", false},
}

func page(s *render.Site, requestPath string) (resource, bool) {
	key := slug.NormalizePath(requestPath)
	if p, ok := s.Pages[key]; ok {
		return htmlResource(p), true
	}
	for _, alt := range alternates {
		rest, ok := strings.CutSuffix(key, alt.suffix)
		if !ok {
			continue
		}
		if strings.HasPrefix(alt.suffix, "index.") && rest != "" && !strings.HasSuffix(rest, "/") {
			continue
		}
		switch {
		case rest == "":
			rest = slug.Root
		case !strings.HasSuffix(rest, "/"):
			rest += "/"
		}
		p, ok := s.Pages[rest]
		if !ok {
			return resource{}, false
		}
		if alt.markdown {
			return resource{
				name:         "index.md",
				body:         p.Markdown,
				contentType:  typeMarkdown,
				lastModified: p.LastModified,
				etag:         p.SourceETag,
			}, true
		}
		return htmlResource(p), true
	}
	return resource{}, false
}

func htmlResource(p *render.Page) resource {
	return resource{
		name:         "index.html",
		body:         p.HTML,
		contentType:  typeHTML,
		lastModified: p.LastModified,
		etag:         p.HTMLETag,
	}
}

// serveResource writes res honouring conditional and range headers. HEAD
// gets the same headers without a body.
func (s *Server) serveResource(w http.ResponseWriter, r *http.Request, res resource) {
	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Cache-Control", cacheControl(res.name))
	if !res.lastModified.IsZero() {
		h.Set("Last-Modified", res.lastModified.UTC().Format(http.TimeFormat))
	}
	if res.etag != "" {
		h.Set("ETag", res.etag)
	}
	if notModified(r, res.etag, res.lastModified) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.Set("Content-Type", res.contentType)
	size := int64(len(res.body))
	body := res.body
	status := http.StatusOK
	if header := r.Header.Get("Range"); header != "" {
		br, outcome := parseRange(header, size)
		switch outcome {
		case rangeSatisfiable:
			status = http.StatusPartialContent
			h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", br.start, br.end, size))
			body = body[br.start : br.end+1]
		case rangeUnsatisfiable:
			h.Del("Content-Type")
			h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
			h.Set("Content-Length", "0")
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		case rangeNone:
		}
	}

	h.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("Response write failed", logfields.Path(r.URL.Path), logfields.Error(err))
	}
}
