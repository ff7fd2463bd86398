package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/export"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// RenderCmd implements the 'render' command.
type RenderCmd struct {
	BlogDir    string `arg:"" name:"blog_dir" type:"existingdir" help:"Blog directory containing the configuration file."`
	OutDir     string `arg:"" name:"out_dir" type:"path" help:"Output directory."`
	ShowDrafts bool   `name:"show-drafts" help:"Include pages marked as drafts."`
}

func (r *RenderCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, err := loadConfig(r.BlogDir, root.Config, r.ShowDrafts)
	if err != nil {
		return err
	}

	start := time.Now()
	builder := site.NewBuilder(cfg, site.Options{ShowDrafts: r.ShowDrafts, Logger: g.Logger})
	res, err := builder.Build(ctx, site.ScopeFull)
	if err != nil {
		return err
	}

	w, err := export.New(r.OutDir, g.Logger)
	if err != nil {
		return err
	}
	out, err := w.Write(ctx, res.Snapshot, cfg.Site.BaseURL)
	if err != nil {
		return err
	}

	g.Logger.Info("Render complete", logfields.Path(w.Dir()), logfields.Duration(time.Since(start)))
	fmt.Printf("Rendered %d pages, %d aliases and %d static files to %s\n",
		out.Pages, out.Aliases, out.Static, w.Dir())
	return nil
}
