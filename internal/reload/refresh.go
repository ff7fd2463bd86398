package reload

import (
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// startRefresh schedules periodic full rebuilds for sources fsnotify cannot
// observe. It returns nil when no refresh interval is configured.
func (c *Coordinator) startRefresh() (gocron.Scheduler, error) {
	if c.opts.RefreshInterval <= 0 {
		return nil, nil
	}
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create refresh scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(c.opts.RefreshInterval),
		gocron.NewTask(c.RequestRebuild, site.ScopeFull),
		gocron.WithName("site-refresh"),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryRuntime, "schedule refresh").Build()
	}
	s.Start()
	c.logger.Info("Scheduled periodic refresh", logfields.Duration(c.opts.RefreshInterval))
	return s, nil
}
