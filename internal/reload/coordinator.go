package reload

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"git.home.luguber.info/inful/pagesmith/internal/logfields"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
	"git.home.luguber.info/inful/pagesmith/internal/notify"
	"git.home.luguber.info/inful/pagesmith/internal/site"
)

// State is the coordinator's position in its state machine.
type State int32

const (
	StateIdle State = iota
	StateAccumulating
	StateRebuilding
)

func (s State) String() string {
	switch s {
	case StateAccumulating:
		return "accumulating"
	case StateRebuilding:
		return "rebuilding"
	default:
		return "idle"
	}
}

const (
	defaultDebounce   = 500 * time.Millisecond
	defaultWatchRetry = 5 * time.Second
)

// Builder runs the build pipeline. *site.Builder satisfies it.
type Builder interface {
	Build(ctx context.Context, scope site.Scope) (*site.Result, error)
}

// Broadcaster tells connected browsers about a new snapshot.
type Broadcaster interface {
	Broadcast(hash string)
}

// Options configures a Coordinator.
type Options struct {
	Debounce        time.Duration
	WatchRetry      time.Duration
	RefreshInterval time.Duration
	// StaticRoots are trees whose changes only need a static reload.
	StaticRoots []string

	Metrics     metrics.Recorder
	Notifier    notify.Publisher
	Broadcaster Broadcaster
	Logger      *slog.Logger
}

// Coordinator rebuilds the site on change and swaps the result into a Slot.
type Coordinator struct {
	slot      *site.Slot
	builder   Builder
	newSource SourceFactory
	opts      Options
	logger    *slog.Logger

	requests chan site.Scope
	state    atomic.Int32
	rebuilds atomic.Int64

	mu           sync.Mutex
	pendingFull  bool
	pendingCount int
}

// New creates a Coordinator. newSource may be nil when only RequestRebuild
// and the scheduled refresh drive rebuilds.
func New(slot *site.Slot, builder Builder, newSource SourceFactory, opts Options) *Coordinator {
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}
	if opts.WatchRetry <= 0 {
		opts.WatchRetry = defaultWatchRetry
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NoopRecorder{}
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Noop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		slot:      slot,
		builder:   builder,
		newSource: newSource,
		opts:      opts,
		logger:    logger,
		requests:  make(chan site.Scope, 16),
	}
}

// State returns the current state.
func (c *Coordinator) State() State { return State(c.state.Load()) }

// Rebuilds counts completed rebuild attempts, successful or not.
func (c *Coordinator) Rebuilds() int64 { return c.rebuilds.Load() }

// RequestRebuild feeds an external trigger into the debounce path. It never
// blocks; a request made while the queue is full is covered by the ones
// already queued.
func (c *Coordinator) RequestRebuild(scope site.Scope) {
	select {
	case c.requests <- scope:
	default:
	}
}

// BuildNow runs one full build synchronously and publishes it. It is used
// for the initial snapshot before Run starts.
func (c *Coordinator) BuildNow(ctx context.Context) error {
	return c.rebuild(ctx, site.ScopeFull)
}

// Run consumes events until ctx is cancelled. A source that fails to open
// or closes is retried after WatchRetry.
func (c *Coordinator) Run(ctx context.Context) error {
	sched, err := c.startRefresh()
	if err != nil {
		return err
	}
	if sched != nil {
		defer func() {
			if err := sched.Shutdown(); err != nil {
				c.logger.Warn("Refresh scheduler shutdown failed", logfields.Error(err))
			}
		}()
	}

	for {
		var src Source
		if c.newSource != nil {
			src, err = c.newSource()
			if err != nil {
				c.logger.Warn("Opening watcher failed; retrying",
					logfields.Error(err), logfields.Duration(c.opts.WatchRetry))
			}
		}

		c.loop(ctx, src, err != nil)
		if src != nil {
			_ = src.Close()
		}
		if ctx.Err() != nil {
			return nil
		}

		c.opts.Metrics.IncWatchRetry()
	}
}

// loop runs the debounce state machine over one source. It returns when
// ctx is done, or WatchRetry after the source failed to open or closed.
// Pending changes keep debouncing while the retry timer runs.
func (c *Coordinator) loop(ctx context.Context, src Source, retry bool) {
	var (
		events <-chan Event
		errs   <-chan error
		retryC <-chan time.Time
	)
	if src != nil {
		events, errs = src.Events(), src.Errors()
	}
	retryTimer := time.NewTimer(c.opts.WatchRetry)
	defer retryTimer.Stop()
	if retry || (src == nil && c.newSource != nil) {
		retryC = retryTimer.C
	} else {
		stopTimer(retryTimer)
	}

	timer := time.NewTimer(time.Hour)
	stopTimer(timer)
	defer timer.Stop()
	var quietC <-chan time.Time
	if c.hasPending() {
		timer.Reset(c.opts.Debounce)
		quietC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case <-retryC:
			return

		case ev, ok := <-events:
			if !ok {
				c.logger.Warn("Watcher closed; retrying", logfields.Duration(c.opts.WatchRetry))
				events, errs = nil, nil
				retryTimer.Reset(c.opts.WatchRetry)
				retryC = retryTimer.C
				continue
			}
			if ev.AccessOnly() || IsNoise(ev.Path) {
				continue
			}
			c.logger.Debug("Change detected", logfields.Path(ev.Path))
			c.note(c.scopeFor(ev.Path))
			stopTimer(timer)
			timer.Reset(c.opts.Debounce)
			quietC = timer.C

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.logger.Warn("Watcher error", logfields.Error(err))

		case scope := <-c.requests:
			c.note(scope)
			stopTimer(timer)
			timer.Reset(c.opts.Debounce)
			quietC = timer.C

		case <-quietC:
			quietC = nil
			scope := c.takePending()
			if err := c.rebuild(ctx, scope); err != nil {
				c.logger.Error("Rebuild failed; keeping previous snapshot",
					logfields.Scope(string(scope)), logfields.Error(err))
			}
		}
	}
}

func stopTimer(t *time.Timer) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
}

func (c *Coordinator) scopeFor(path string) site.Scope {
	for _, root := range c.opts.StaticRoots {
		if under(path, root) {
			return site.ScopeStatic
		}
	}
	return site.ScopeFull
}

// note records one pending change. Any non-static change makes the batch full.
func (c *Coordinator) note(scope site.Scope) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingCount++
	if scope != site.ScopeStatic {
		c.pendingFull = true
	}
	c.state.Store(int32(StateAccumulating))
}

func (c *Coordinator) hasPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingCount > 0
}

func (c *Coordinator) takePending() site.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	scope := site.ScopeStatic
	if c.pendingFull {
		scope = site.ScopeFull
	}
	c.logger.Debug("Quiet period elapsed", logfields.Events(c.pendingCount), logfields.Scope(string(scope)))
	c.pendingFull = false
	c.pendingCount = 0
	return scope
}

// rebuild builds scope and publishes it. On failure the slot is untouched.
func (c *Coordinator) rebuild(ctx context.Context, scope site.Scope) error {
	c.state.Store(int32(StateRebuilding))
	defer func() {
		if !c.hasPending() {
			c.state.Store(int32(StateIdle))
		} else {
			c.state.Store(int32(StateAccumulating))
		}
	}()
	n := c.rebuilds.Add(1)

	start := time.Now()
	res, err := c.builder.Build(ctx, scope)
	if err != nil {
		c.opts.Metrics.ObserveRebuild(string(scope), metrics.ResultFailed, time.Since(start))
		return err
	}

	if scope == site.ScopeStatic {
		c.slot.PublishStatic(res.Snapshot.Static)
	} else {
		c.slot.Publish(res.Snapshot)
	}
	snap := c.slot.Load()
	c.opts.Metrics.ObserveRebuild(string(scope), metrics.ResultSuccess, res.Duration)
	c.opts.Metrics.SetSiteSize(len(snap.Site.Pages), len(snap.Static))

	c.logger.Info("Published snapshot",
		logfields.Scope(string(scope)),
		logfields.Generation(snap.Site.Generation),
		logfields.Pages(len(snap.Site.Pages)),
		logfields.StaticFiles(len(snap.Static)),
		logfields.Duration(res.Duration))

	if c.opts.Broadcaster != nil {
		hash := snap.Site.Generation
		if scope == site.ScopeStatic {
			hash += "+" + strconv.FormatInt(n, 10)
		}
		c.opts.Broadcaster.Broadcast(hash)
	}

	if err := c.opts.Notifier.Publish(ctx, notify.Event{
		Generation: snap.Site.Generation,
		Scope:      string(scope),
		Pages:      len(snap.Site.Pages),
		Static:     len(snap.Static),
		DurationMS: res.Duration.Milliseconds(),
	}); err != nil {
		c.logger.Warn("Rebuild notification failed", logfields.Error(err))
	}
	return nil
}
