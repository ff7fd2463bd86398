package site

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/assets"
	"git.home.luguber.info/inful/pagesmith/internal/badges"
	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/content"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/gitdates"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/markdown"
	"git.home.luguber.info/inful/pagesmith/internal/pagegraph"
	"git.home.luguber.info/inful/pagesmith/internal/render"
)

// Scope selects how much of the site a build recomputes.
type Scope string

const (
	// ScopeFull reloads templates, content and static files.
	ScopeFull Scope = "full"
	// ScopeStatic reloads static files only.
	ScopeStatic Scope = "static"
)

// Options configures a Builder.
type Options struct {
	// ShowDrafts overrides features.show_drafts when true.
	ShowDrafts bool
	// LiveReload injects the reload client into rendered pages.
	LiveReload bool
	Logger     *slog.Logger
}

// Result is the outcome of one build.
type Result struct {
	Scope    Scope
	Snapshot Snapshot
	Metadata *pagegraph.Metadata // nil for static-only builds
	Duration time.Duration
}

// Builder runs the build pipeline for one configuration.
type Builder struct {
	cfg    *config.Config
	opts   Options
	logger *slog.Logger
	md     *markdown.Renderer
}

// NewBuilder creates a Builder.
func NewBuilder(cfg *config.Config, opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		md:     markdown.New(markdown.Options{HighlightStyle: cfg.Theme.HighlightStyle}),
	}
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// Build runs the pipeline for scope. Nothing is published; the caller swaps
// the result into a Slot.
func (b *Builder) Build(ctx context.Context, scope Scope) (*Result, error) {
	start := time.Now()
	res := &Result{Scope: scope}

	static, err := b.Static(ctx)
	if err != nil {
		return nil, err
	}
	res.Snapshot.Static = static

	if scope != ScopeStatic {
		meta, err := b.Metadata(ctx)
		if err != nil {
			return nil, err
		}
		s, err := b.Render(ctx, meta)
		if err != nil {
			return nil, err
		}
		res.Metadata = meta
		res.Snapshot.Site = s
	}

	res.Duration = time.Since(start)
	return res, nil
}

// Static loads the three static tiers.
func (b *Builder) Static(ctx context.Context) (assets.Files, error) {
	return assets.Load(ctx, assets.Tiers{
		ThemeStatic: b.cfg.ThemeStaticPath(),
		Content:     b.cfg.PagesPath(),
		Static:      b.cfg.StaticPath(),
	}, b.logger)
}

// Metadata loads content and badges and derives the page graph.
func (b *Builder) Metadata(ctx context.Context) (*pagegraph.Metadata, error) {
	opts := content.Options{
		PagesDir:       b.cfg.PagesPath(),
		StaticDir:      b.cfg.StaticPath(),
		EmbedImagesDir: b.cfg.Site.EmbedImagesDir,
		ShowDrafts:     b.opts.ShowDrafts || b.cfg.Features.ShowDrafts,
		WikiLinks:      b.cfg.Features.WikiLinks,
		Markdown:       b.md,
		Logger:         b.logger,
	}
	if b.cfg.Site.GitDates {
		idx, err := gitdates.Open(ctx, b.cfg.PagesPath(), 0)
		if err != nil {
			b.logger.Warn("Git dates unavailable; using file times", logfields.Error(err))
		} else {
			opts.Dates = idx
		}
	}

	pages, err := content.NewLoader(opts).Load(ctx)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "load content").Build()
	}
	sets := badges.Load(b.cfg.BadgesPath(), b.cfg.BadgesConfigPath(), b.logger)
	meta := pagegraph.Build(pages, sets)

	unresolved := meta.UnresolvedLinks()
	for _, s := range meta.Pages.Slugs() {
		for _, link := range unresolved[s] {
			b.logger.Warn("Link to unknown page", logfields.Slug(s), logfields.URL(link))
		}
	}
	b.logger.Debug("Built page graph", logfields.Pages(len(pages)), slog.String("digest", meta.Digest()))
	return meta, nil
}

// Render loads the theme templates and renders meta.
func (b *Builder) Render(ctx context.Context, meta *pagegraph.Metadata) (*render.Site, error) {
	tpl, err := render.LoadTemplates(b.cfg.TemplatesPath())
	if err != nil {
		return nil, err
	}
	return render.New(render.Options{
		Config:     b.cfg,
		Templates:  tpl,
		LiveReload: b.opts.LiveReload,
		Logger:     b.logger,
	}).Render(ctx, meta)
}
