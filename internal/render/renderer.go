package render

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/google/uuid"
	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/pagesmith/internal/badges"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
	"git.home.luguber.info/inful/pagesmith/internal/rewrite"
	"git.home.luguber.info/inful/pagesmith/internal/slug"
)

const fallbackTemplate = "_fallback"

// Options configures a Renderer.
type Options struct {
	Config    *config.Config
	Templates *Templates
	// LiveReload injects the reload client into every HTML page. Serve mode only.
	LiveReload bool
	Logger     *slog.Logger
	Now        func() time.Time
}

// Renderer produces Site snapshots. A Renderer is not safe for concurrent
// Render calls.
type Renderer struct {
	cfg        *config.Config
	templates  *Templates
	liveReload bool
	logger     *slog.Logger
	now        func() time.Time
	toMarkdown *converter.Converter
}

// New builds a Renderer. A nil Templates behaves as an empty theme.
func New(opts Options) *Renderer {
	r := &Renderer{
		cfg:        opts.Config,
		templates:  opts.Templates,
		liveReload: opts.LiveReload,
		logger:     opts.Logger,
		now:        opts.Now,
		toMarkdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.templates == nil {
		r.templates = &Templates{base: template.New("").Funcs(placeholderFuncs()), names: map[string]bool{}}
	}
	return r
}

func (r *Renderer) funcs(meta *pagegraph.Metadata) template.FuncMap {
	ld := &linkedData{cfg: r.cfg, meta: meta, now: r.now}
	return template.FuncMap{
		"ldjson": ld.JSON,
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) //nolint:gosec // explicit opt-in from templates
		},
		"escapeAttr": func(s string) template.HTML {
			return template.HTML(rewrite.Escape(s)) //nolint:gosec // escaped above
		},
		"badgesFor": func(page, set string) []badges.Badge {
			return meta.Badges.ShuffledFor(page)[set]
		},
		"now": r.now,
	}
}

// Render renders every page of meta. Per-page failures are logged and the
// page degrades to the fallback layout; only a broken template set or a
// cancelled context fails the whole render.
func (r *Renderer) Render(ctx context.Context, meta *pagegraph.Metadata) (*Site, error) {
	funcs := r.funcs(meta)
	layouts, err := r.templates.bind(funcs)
	if err != nil {
		return nil, err
	}

	site := &Site{
		Generation:   uuid.NewString(),
		Pages:        make(map[string]*Page, len(meta.Pages)),
		Aliases:      map[string]string{},
		LastModified: meta.LastModified,
	}

	for _, s := range meta.Pages.Slugs() {
		if err := ctx.Err(); err != nil {
			return nil, errors.WrapError(err, errors.CategoryBuild, "render cancelled").Build()
		}
		rec := meta.Pages[s]
		site.Pages[s] = r.renderPage(layouts, funcs, meta, rec)

		for _, alias := range rec.FrontMatter.Strings("aliases") {
			key := strings.TrimPrefix(alias, "/")
			if prev, dup := site.Aliases[key]; dup && prev != s {
				r.logger.Warn("Alias claimed by several pages", slog.String("alias", key), logfields.Slug(prev), slog.String("other", s))
				continue
			}
			site.Aliases[key] = s
		}
	}

	if site.Sitemap, err = Sitemap(r.cfg, meta); err != nil {
		return nil, err
	}
	if site.RSS, err = RSS(r.cfg, meta); err != nil {
		return nil, err
	}
	if site.Atom, err = Atom(r.cfg, meta); err != nil {
		return nil, err
	}

	r.logger.Info("Rendered site",
		logfields.Generation(site.Generation),
		logfields.Pages(len(site.Pages)),
		slog.Int("aliases", len(site.Aliases)))
	return site, nil
}

func (r *Renderer) renderPage(layouts *template.Template, funcs template.FuncMap, meta *pagegraph.Metadata, rec *content.PageRecord) *Page {
	log := r.logger.With(logfields.Slug(rec.Slug))

	body := rec.RenderedHTML
	markdown := rec.RawContent
	sourceETag := rec.Fingerprint
	if rec.Format == content.FormatTemplate {
		expanded, err := r.expandBody(funcs, meta, rec)
		if err != nil {
			log.Warn("Template page expansion failed; serving raw body", logfields.Error(err))
			expanded = rec.RawContent
		}
		body = expanded
		if md, err := r.toMarkdown.ConvertString(expanded, converter.WithDomain(r.cfg.Site.BaseURL)); err == nil {
			markdown = md
		} else {
			log.Warn("Markdown conversion failed", logfields.Error(err))
		}
		sourceETag = mdfp.CalculateFingerprintFromParts("", markdown)
	}

	pc := pageContext(r.cfg, meta, rec, template.HTML(body)) //nolint:gosec // rendered by us
	out, err := r.executeLayout(layouts, rec, pc)
	if err != nil {
		log.Warn("Layout failed; using fallback", logfields.Error(err))
		var buf bytes.Buffer
		if ferr := layouts.ExecuteTemplate(&buf, fallbackTemplate, pc); ferr != nil {
			log.Error("Fallback layout failed", logfields.Error(ferr))
		}
		out = buf.String()
	}

	final, err := rewrite.Rewrite(out, r.cfg.Site.BaseURL, rewritePath(rec))
	if err != nil {
		log.Warn("URL rewrite failed; keeping original links", logfields.Error(err))
		final = out
	}

	doc := []byte(final)
	if r.liveReload {
		doc = injectLiveReload(doc)
	}

	return &Page{
		Slug:         rec.Slug,
		Title:        rec.DisplayTitle(),
		HTML:         doc,
		Markdown:     []byte(markdown),
		LastModified: rec.LastModified,
		HTMLETag:     quoteETag(mdfp.CalculateFingerprintFromParts(rec.Fingerprint, final)),
		SourceETag:   quoteETag(sourceETag),
	}
}

// executeLayout runs the page's layout. A missing layout is reported as a
// content error so the caller falls back.
func (r *Renderer) executeLayout(layouts *template.Template, rec *content.PageRecord, pc map[string]any) (string, error) {
	name := rec.FrontMatter.StringOr("template", DefaultTemplate)
	if !r.templates.Has(name) {
		return "", errors.ContentError("template not found").
			WithContext("template", name).Build()
	}
	var buf bytes.Buffer
	if err := layouts.ExecuteTemplate(&buf, name, pc); err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "execute template").
			WithContext("template", name).Build()
	}
	return buf.String(), nil
}

// expandBody runs a template page's own body with the page context. The
// body is parsed into a fresh clone so it can use the theme's partials.
func (r *Renderer) expandBody(funcs template.FuncMap, meta *pagegraph.Metadata, rec *content.PageRecord) (string, error) {
	set, err := r.templates.bind(funcs)
	if err != nil {
		return "", err
	}
	name := "_content_" + strings.ReplaceAll(rec.Slug, "/", "_")
	t, err := set.New(name).Parse(rec.RawContent)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "parse page body").Build()
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, pageContext(r.cfg, meta, rec, "")); err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "execute page body").Build()
	}
	return buf.String(), nil
}

// rewritePath is the document URL relative links resolve against. Section
// index sources resolve next to themselves.
func rewritePath(rec *content.PageRecord) string {
	p := "/" + strings.TrimPrefix(rec.Slug, "/")
	switch path.Base(rec.RelPath) {
	case "index", "_index":
		if slug.IsRoot(rec.Slug) {
			return "/index"
		}
		return p + "index"
	}
	return p
}

func quoteETag(fp string) string { return `"` + fp + `"` }
