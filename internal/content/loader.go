package content

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

// PageExtensions are the file extensions treated as pages. Everything else in
// the pages dir is a content-adjacent asset.
var PageExtensions = map[string]SourceFormat{
	".md":   FormatMarkdown,
	".html": FormatTemplate,
}

// IsPageFile reports whether name has a page extension.
func IsPageFile(name string) bool {
	_, ok := PageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MarkdownRenderer is the markdown collaborator.
type MarkdownRenderer interface {
	Render(src string) (string, error)
}

// DateSource supplies a better last-modified time than the file mtime, such
// as the last commit touching the file.
type DateSource interface {
	LastModified(absPath string) (time.Time, bool)
}

// Options configures a Loader.
type Options struct {
	PagesDir       string
	StaticDir      string
	EmbedImagesDir string
	ShowDrafts     bool
	WikiLinks      bool

	Markdown MarkdownRenderer
	Dates    DateSource // optional
	Logger   *slog.Logger
}

// Loader reads the pages dir into PageRecords.
type Loader struct {
	opts   Options
	logger *slog.Logger
}

// NewLoader builds a Loader. A nil Markdown renderer gets a default one.
func NewLoader(opts Options) *Loader {
	if opts.Markdown == nil {
		opts.Markdown = markdown.New(markdown.Options{})
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{opts: opts, logger: logger}
}

// Load walks the pages dir and returns every non-draft page plus the
// generated tags index. Per-file problems are logged and skipped; only a
// cancelled context or an unreadable pages dir fail the load.
func (l *Loader) Load(ctx context.Context) (Pages, error) {
	pages := Pages{}
	root := l.opts.PagesDir

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warn("Pages directory does not exist", logfields.Path(root))
			return pages, nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "stat pages directory").
			WithContext("path", root).Build()
	}
	if !info.IsDir() {
		return nil, errors.FileSystemError("pages path is not a directory").
			WithContext("path", root).Build()
	}

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			l.logger.Warn("Skipping unreadable path", logfields.Path(p), logfields.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		format, ok := PageExtensions[strings.ToLower(filepath.Ext(p))]
		if !ok {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))

		rec, ok := l.loadFile(p, key, format)
		if !ok {
			return nil
		}
		if existing, dup := pages[rec.Slug]; dup {
			l.logger.Warn("Duplicate page slug, keeping first",
				logfields.Slug(rec.Slug),
				logfields.File(existing.RelativeSourcePath()),
				slog.String("ignored", rec.RelativeSourcePath()))
			return nil
		}
		pages[rec.Slug] = rec
		return nil
	})
	if walkErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.WrapError(walkErr, errors.CategoryFileSystem, "walk pages directory").
			WithContext("path", root).Build()
	}

	if tags := l.tagsPage(pages); tags != nil {
		pages[tags.Slug] = tags
	}

	l.logger.Debug("Loaded pages", logfields.Pages(len(pages)), logfields.Path(root))
	return pages, nil
}

func (l *Loader) loadFile(absPath, key string, format SourceFormat) (*PageRecord, bool) {
	raw, err := os.ReadFile(absPath)
	if err != nil {
		l.logger.Warn("Skipping unreadable page", logfields.Path(absPath), logfields.Error(err))
		return nil, false
	}
	stat, err := os.Stat(absPath)
	if err != nil {
		l.logger.Warn("Skipping page without metadata", logfields.Path(absPath), logfields.Error(err))
		return nil, false
	}

	doc, err := frontmatter.Parse(string(raw))
	if err != nil {
		cerr := errors.WrapError(err, errors.CategoryContent, "malformed front matter").
			WithContext("path", absPath).Warning().Build()
		l.logger.Warn("Treating page as body-only", logfields.Path(absPath), logfields.Error(cerr))
	}

	meta := doc.Meta
	if !l.opts.ShowDrafts && meta.Bool("draft") {
		return nil, false
	}

	pageSlug := slug.Slugify(key)
	meta = l.resolveEmbedImage(pageSlug, meta)

	rec := &PageRecord{
		Slug:         pageSlug,
		RelPath:      key,
		FrontMatter:  meta,
		RawContent:   doc.Body,
		LastModified: stat.ModTime(),
		Format:       format,
		Title:        meta.StringOr("title", ""),
		ReadingTime:  ReadingTime(doc.Body),
		Fingerprint:  Fingerprint(meta, doc.Body),
	}
	if l.opts.Dates != nil {
		if t, ok := l.opts.Dates.LastModified(absPath); ok {
			rec.LastModified = t
		}
	}

	if format == FormatMarkdown {
		l.renderMarkdown(rec)
	}
	return rec, true
}

func (l *Loader) renderMarkdown(rec *PageRecord) {
	body := rec.RawContent
	if l.opts.WikiLinks {
		var targets []string
		body, targets = markdown.ProcessLinks(body)
		rec.RawContent = body
		for _, t := range targets {
			rec.Links = append(rec.Links, "/"+strings.TrimPrefix(t, "/"))
		}
	}
	for _, link := range markdown.ExtractLinks([]byte(body)) {
		if strings.HasPrefix(link.Destination, "/") && !strings.HasPrefix(link.Destination, "//") {
			rec.Links = append(rec.Links, link.Destination)
		}
	}

	html, err := l.opts.Markdown.Render(body)
	if err != nil {
		l.logger.Warn("Markdown render failed", logfields.Slug(rec.Slug), logfields.Error(err))
		return
	}
	rec.RenderedHTML = html
}

// resolveEmbedImage fills embed_image from static/<dir>/<slug>.png when the
// page does not set one.
func (l *Loader) resolveEmbedImage(pageSlug string, meta frontmatter.Value) frontmatter.Value {
	dir := l.opts.EmbedImagesDir
	if dir == "" || meta.Has("embed_image") {
		return meta
	}
	trimmed := strings.TrimSuffix(pageSlug, "/")
	candidate := filepath.Join(l.opts.StaticDir, filepath.FromSlash(dir), filepath.FromSlash(trimmed)+".png")
	if _, err := os.Stat(candidate); err != nil {
		return meta
	}
	return meta.With("embed_image", frontmatter.String("/"+path.Join(dir, trimmed)+".png"))
}
