// Package commands implements the pagesmith CLI commands.
package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagesmith/internal/config"
)

// Global is passed to every command's Run method.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file name inside the blog directory" default:"pagesmith.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Serve      ServeCmd   `cmd:"" help:"Serve the site with live reload"`
	Render     RenderCmd  `cmd:"" help:"Render the site to a directory"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// loadConfig loads the blog configuration and applies the drafts override.
func loadConfig(blogDir, fileName string, showDrafts bool) (*config.Config, error) {
	cfg, err := config.Load(blogDir, fileName)
	if err != nil {
		return nil, err
	}
	if showDrafts {
		cfg.Features.ShowDrafts = true
	}
	return cfg, nil
}
