package reload

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Op is the kind of a change.
type Op uint8

const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
	OpChmod
)

// Event is one discrete change notification.
type Event struct {
	Path string
	Op   Op
}

// AccessOnly reports events that change no content.
func (e Event) AccessOnly() bool { return e.Op == OpChmod }

// Source produces change events. Events is closed when the source stops.
type Source interface {
	Events() <-chan Event
	Errors() <-chan error
	Close() error
}

// SourceFactory opens a fresh Source; the coordinator calls it again after
// a source closes.
type SourceFactory func() (Source, error)

// FSSource watches directory trees with fsnotify. Directories created
// inside a watched tree are added as they appear.
type FSSource struct {
	watcher *fsnotify.Watcher
	events  chan Event
	errs    chan error
	done    chan struct{}
	once    sync.Once
	logger  *slog.Logger
}

// NewFSSource starts watching roots recursively. Missing roots are skipped.
func NewFSSource(roots []string, logger *slog.Logger) (*FSSource, error) {
	if logger == nil {
		logger = slog.Default()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WatchError("create watcher").WithContext("error", err.Error()).Build()
	}
	s := &FSSource{
		watcher: w,
		events:  make(chan Event, 64),
		errs:    make(chan error, 8),
		done:    make(chan struct{}),
		logger:  logger,
	}
	for _, root := range roots {
		if st, err := os.Stat(root); err != nil || !st.IsDir() {
			continue
		}
		s.addDirsRecursive(root)
	}
	go s.forward()
	return s, nil
}

// FSSourceFactory opens FSSources over roots.
func FSSourceFactory(roots []string, logger *slog.Logger) SourceFactory {
	return func() (Source, error) { return NewFSSource(roots, logger) }
}

func (s *FSSource) Events() <-chan Event { return s.events }
func (s *FSSource) Errors() <-chan error { return s.errs }

// Close stops the watcher; Events is closed shortly after.
func (s *FSSource) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.watcher.Close()
}

func (s *FSSource) forward() {
	defer close(s.events)
	defer close(s.errs)
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					s.addDirsRecursive(ev.Name)
				}
			}
			select {
			case s.events <- Event{Path: ev.Name, Op: convertOp(ev.Op)}:
			case <-s.done:
				return
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			select {
			case s.errs <- err:
			default:
				s.logger.Warn("Dropping watcher error", logfields.Error(err))
			}
		}
	}
}

func (s *FSSource) addDirsRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable subtrees are simply not watched
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			if err := s.watcher.Add(path); err != nil {
				s.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

func convertOp(op fsnotify.Op) Op {
	var out Op
	if op.Has(fsnotify.Create) {
		out |= OpCreate
	}
	if op.Has(fsnotify.Write) {
		out |= OpWrite
	}
	if op.Has(fsnotify.Remove) {
		out |= OpRemove
	}
	if op.Has(fsnotify.Rename) {
		out |= OpRename
	}
	if op.Has(fsnotify.Chmod) {
		out |= OpChmod
	}
	return out
}
