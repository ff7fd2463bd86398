package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/render"
	"git.home.luguber.info/inful/pagesmith/internal/server/middleware"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	// LiveReload mounts the SSE endpoint when set.
	LiveReload *LiveReloadHub
	// Registry mounts the Prometheus endpoint at MetricsPath when set.
	Registry    *prom.Registry
	MetricsPath string
	Metrics     metrics.Recorder
	Logger      *slog.Logger
}

// Server serves the snapshot held by a site.Slot.
type Server struct {
	slot    *site.Slot
	opts    Options
	logger  *slog.Logger
	adapter *errors.HTTPErrorAdapter
	router  *chi.Mux
}

// New builds the router.
func New(slot *site.Slot, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	s := &Server{
		slot:    slot,
		opts:    opts,
		logger:  logger,
		adapter: errors.NewHTTPErrorAdapter(logger),
	}

	r := chi.NewRouter()
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Chain(logger, s.adapter, opts.Metrics))
	if opts.LiveReload != nil {
		r.Handle(render.LiveReloadPath, http.HandlerFunc(s.serveLiveReload))
	}
	if opts.Registry != nil {
		r.Handle(opts.MetricsPath, metrics.HTTPHandler(opts.Registry))
	}
	r.Handle("/*", http.HandlerFunc(s.serveContent))
	s.router = r
	return s
}

// serveLiveReload opens the event stream for GET. HEAD gets the stream
// headers without subscribing.
func (s *Server) serveLiveReload(w http.ResponseWriter, r *http.Request) {
	if !readMethod(w, r) {
		return
	}
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		return
	}
	s.opts.LiveReload.ServeHTTP(w, r)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe binds addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "listen").
			WithContext("addr", addr).
			Build()
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("Serving site", logfields.Addr(ln.Addr().String()))

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapError(err, errors.CategoryNetwork, "serve").Build()
		}
		return nil
	case <-ctx.Done():
	}

	// SSE handlers only return once their clients are closed.
	if s.opts.LiveReload != nil {
		s.opts.LiveReload.Shutdown()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.WrapError(err, errors.CategoryNetwork, "shutdown").Build()
	}
	s.logger.Info("Server stopped")
	return nil
}
