package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field names shared by every package.
const (
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyFile       = "file"
	KeyTemplate   = "template"
	KeyGeneration = "generation"
	KeyScope      = "scope"
	KeyPages      = "pages"
	KeyStatic     = "static_files"
	KeyEvents     = "events"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyUserAgent  = "user_agent"
	KeyRemoteAddr = "remote_addr"
	KeyRange      = "range"
	KeyURL        = "url"
	KeyAddr       = "addr"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Helpers returning slog.Attr. Each is granular so callers can compose.
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr        { return slog.String(KeySlug, s) }
func File(f string) slog.Attr        { return slog.String(KeyFile, f) }
func Template(n string) slog.Attr    { return slog.String(KeyTemplate, n) }
func Generation(g string) slog.Attr  { return slog.String(KeyGeneration, g) }
func Scope(s string) slog.Attr       { return slog.String(KeyScope, s) }
func Pages(n int) slog.Attr          { return slog.Int(KeyPages, n) }
func StaticFiles(n int) slog.Attr    { return slog.Int(KeyStatic, n) }
func Events(n int) slog.Attr         { return slog.Int(KeyEvents, n) }
func Method(m string) slog.Attr      { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr      { return slog.Int(KeyStatus, code) }
func UserAgent(ua string) slog.Attr  { return slog.String(KeyUserAgent, ua) }
func RemoteAddr(a string) slog.Attr  { return slog.String(KeyRemoteAddr, a) }
func Range(r string) slog.Attr       { return slog.String(KeyRange, r) }
func URL(u string) slog.Attr         { return slog.String(KeyURL, u) }
func Addr(a string) slog.Attr        { return slog.String(KeyAddr, a) }
func Subject(s string) slog.Attr     { return slog.String(KeySubject, s) }

// Duration records d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
