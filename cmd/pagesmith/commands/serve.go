package commands

import (
	"strings"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/notify"
	"git.home.luguber.info/inful/pagesmith/internal/reload"
	"git.home.luguber.info/inful/pagesmith/internal/server"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	BlogDir    string `arg:"" name:"blog_dir" type:"existingdir" help:"Blog directory containing the configuration file."`
	ShowDrafts bool   `name:"show-drafts" help:"Include pages marked as drafts."`
	Domain     string `name:"domain" default:"http://127.0.0.1:3030" help:"Public base URL; overrides site.base_url."`
	Addr       string `name:"addr" help:"Listen address (defaults to serve.addr)."`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	logger := g.Logger

	cfg, err := loadConfig(s.BlogDir, root.Config, s.ShowDrafts)
	if err != nil {
		return err
	}
	if s.Domain != "" {
		cfg.Site.BaseURL = strings.TrimSuffix(s.Domain, "/")
	}
	addr := cfg.Serve.Addr
	if s.Addr != "" {
		addr = s.Addr
	}

	var (
		reg      *prom.Registry
		recorder metrics.Recorder = metrics.NoopRecorder{}
	)
	if cfg.Metrics.Enabled {
		reg = prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	publisher, err := notify.FromURL(cfg.Notify.NATSURL, cfg.Notify.Subject)
	if err != nil {
		logger.Warn("Rebuild notifications disabled", logfields.URL(cfg.Notify.NATSURL), logfields.Error(err))
		publisher = notify.Noop{}
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Closing notifier failed", logfields.Error(err))
		}
	}()

	opts := reload.Options{
		Debounce:        cfg.Serve.Debounce,
		WatchRetry:      cfg.Serve.WatchRetry,
		RefreshInterval: cfg.Serve.RefreshInterval,
		StaticRoots:     []string{cfg.StaticPath(), cfg.ThemeStaticPath()},
		Metrics:         recorder,
		Notifier:        publisher,
		Logger:          logger,
	}
	var hub *server.LiveReloadHub
	if cfg.LiveReloadEnabled() {
		hub = server.NewLiveReloadHub(logger)
		opts.Broadcaster = hub
	}

	slot := site.NewSlot()
	builder := site.NewBuilder(cfg, site.Options{
		ShowDrafts: s.ShowDrafts,
		LiveReload: hub != nil,
		Logger:     logger,
	})
	coord := reload.New(slot, builder, reload.FSSourceFactory(cfg.WatchPaths(), logger), opts)
	if err := coord.BuildNow(ctx); err != nil {
		logger.Error("Initial build failed; serving an empty site until the next change", logfields.Error(err))
	}

	coordDone := make(chan error, 1)
	go func() { coordDone <- coord.Run(ctx) }()

	srv := server.New(slot, server.Options{
		LiveReload:  hub,
		Registry:    reg,
		MetricsPath: cfg.Metrics.Path,
		Metrics:     recorder,
		Logger:      logger,
	})
	serveErr := srv.ListenAndServe(ctx, addr)
	cancel()
	if err := <-coordDone; err != nil && serveErr == nil {
		return err
	}
	return serveErr
}
