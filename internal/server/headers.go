package server

import (
	"mime"
	"path"
	"strings"
)

const (
	cacheRevalidate = "no-cache, must-revalidate"
	cacheImmutable  = "public, max-age=31536000, immutable"
	cacheWeek       = "public, max-age=604800"
	cacheHour       = "public, max-age=3600"
)

var cacheByExt = map[string]string{
	".html": cacheRevalidate,
	".md":   cacheRevalidate,
	".txt":  cacheRevalidate,

	".css":   cacheImmutable,
	".js":    cacheImmutable,
	".mjs":   cacheImmutable,
	".woff":  cacheImmutable,
	".woff2": cacheImmutable,
	".ttf":   cacheImmutable,
	".otf":   cacheImmutable,
	".eot":   cacheImmutable,

	".png":  cacheWeek,
	".jpg":  cacheWeek,
	".jpeg": cacheWeek,
	".gif":  cacheWeek,
	".svg":  cacheWeek,
	".webp": cacheWeek,
	".avif": cacheWeek,
	".ico":  cacheWeek,

	".xml": cacheHour,
	".xsl": cacheHour,
}

// cacheControl returns the Cache-Control value for a resource by extension.
func cacheControl(name string) string {
	if v, ok := cacheByExt[strings.ToLower(path.Ext(name))]; ok {
		return v
	}
	return cacheRevalidate
}

// types missing from some platform mime tables.
var typeByExt = map[string]string{
	".md":    "text/markdown; charset=utf-8",
	".txt":   "text/plain; charset=utf-8",
	".xsl":   "text/xsl; charset=utf-8",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".ico":   "image/x-icon",
}

// contentType infers a MIME type from the file extension.
func contentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if t, ok := typeByExt[ext]; ok {
		return t
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}
