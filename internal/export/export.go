// Package export writes a rendered snapshot to a directory tree that a plain
// file server can host with the same URLs the dev server answers.
package export

import (
	"context"
	"html"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// Result counts what a Write produced.
type Result struct {
	Pages   int
	Aliases int
	Static  int
	Files   int
}

// Writer writes snapshots below one output directory.
type Writer struct {
	out    string
	logger *slog.Logger
}

// New creates the output directory if needed.
func New(outDir string, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "resolve output dir").
			WithContext("path", outDir).
			Build()
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "create output dir").
			WithContext("path", abs).
			Build()
	}
	return &Writer{out: abs, logger: logger}, nil
}

// Dir returns the absolute output directory.
func (w *Writer) Dir() string { return w.out }

// Write exports snap. base is the public site URL used in redirect stubs.
// Static files are written first so a page claiming the same path wins.
func (w *Writer) Write(ctx context.Context, snap site.Snapshot, base string) (*Result, error) {
	res := &Result{}
	put := func(rel string, data []byte, mod time.Time) error {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryBuild, "export cancelled").Build()
		}
		if err := w.writeFile(rel, data, mod); err != nil {
			return err
		}
		res.Files++
		return nil
	}

	for _, key := range snap.Static.Paths() {
		f := snap.Static[key]
		if err := put(key, f.Data, f.LastModified); err != nil {
			return nil, err
		}
		res.Static++
	}

	s := snap.Site
	for _, sl := range s.Slugs() {
		p := s.Pages[sl]
		dir := pageDir(sl)
		if err := put(dir+"index.html", p.HTML, p.LastModified); err != nil {
			return nil, err
		}
		if err := put(dir+"index.md", p.Markdown, p.LastModified); err != nil {
			return nil, err
		}
		if err := put(dir+"index.txt", p.Markdown, p.LastModified); err != nil {
			return nil, err
		}
		res.Pages++
	}

	for _, a := range s.AliasPaths() {
		if err := put(aliasFile(a), RedirectHTML(base, s.Aliases[a]), s.LastModified); err != nil {
			return nil, err
		}
		res.Aliases++
	}

	for name, data := range map[string][]byte{
		"sitemap.xml": s.Sitemap,
		"rss.xml":     s.RSS,
		"atom.xml":    s.Atom,
	} {
		if err := put(name, data, s.LastModified); err != nil {
			return nil, err
		}
	}

	w.logger.Info("Exported site",
		logfields.Path(w.out),
		logfields.Generation(s.Generation),
		logfields.Pages(res.Pages),
		logfields.StaticFiles(res.Static),
		slog.Int("aliases", res.Aliases))
	return res, nil
}

// pageDir is the directory, relative to the output root, holding a page.
func pageDir(sl string) string {
	if slug.IsRoot(sl) {
		return ""
	}
	return strings.TrimPrefix(slug.NormalizePath(sl), "/")
}

// aliasFile maps an alias onto the file that answers it.
func aliasFile(alias string) string {
	alias = strings.TrimPrefix(alias, "/")
	if path.Ext(alias) != "" {
		return alias
	}
	if alias != "" && !strings.HasSuffix(alias, "/") {
		alias += "/"
	}
	return alias + "index.html"
}

// RedirectHTML is the stub page written for an alias.
func RedirectHTML(base, target string) []byte {
	full := html.EscapeString(strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(target, "/"))
	return []byte(`<!doctype html><meta charset=utf-8>` +
		`<link rel=canonical href="` + full + `">` +
		`<meta http-equiv=refresh content="0; url=` + full + `">` +
		`<title>Redirect</title>` +
		`<p><a href="` + full + `">Click here</a> to be redirected.</p>`)
}

// resolve joins rel onto the output dir, rejecting paths that leave it.
func (w *Writer) resolve(rel string) (string, error) {
	target := filepath.Join(w.out, filepath.FromSlash(rel))
	r, err := filepath.Rel(w.out, target)
	if err != nil || r == "." || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", errors.ValidationError("path escapes output dir").
			WithContext("path", rel).
			Build()
	}
	return target, nil
}

// writeFile writes data through a temp file and a rename so readers never
// see a partial file.
func (w *Writer) writeFile(rel string, data []byte, mod time.Time) error {
	target, err := w.resolve(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create directory").
			WithContext("path", dir).
			Build()
	}

	tmp, err := os.CreateTemp(dir, ".pagesmith-*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create temp file").
			WithContext("path", dir).
			Build()
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "write temp file").
			WithContext("path", rel).
			Build()
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "close temp file").
			WithContext("path", rel).
			Build()
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "chmod temp file").
			WithContext("path", rel).
			Build()
	}
	if !mod.IsZero() {
		if err := os.Chtimes(tmpName, mod, mod); err != nil {
			w.logger.Debug("Setting file times failed", logfields.Path(rel), logfields.Error(err))
		}
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return errors.WrapError(err, errors.CategoryFileSystem, "replace file").
			WithContext("path", rel).
			Build()
	}
	return nil
}
