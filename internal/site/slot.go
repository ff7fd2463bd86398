package site

import (
	"sync"

	"git.home.luguber.info/inful/pagesmith/internal/assets"
	"git.home.luguber.info/inful/pagesmith/internal/render"
)

// Snapshot is a consistent view of the rendered site and its static files.
type Snapshot struct {
	Site   *render.Site
	Static assets.Files
}

// Slot holds the current Snapshot. Readers never observe a partially
// replaced snapshot.
type Slot struct {
	mu     sync.RWMutex
	site   *render.Site
	static assets.Files
}

// NewSlot returns a slot holding an empty site.
func NewSlot() *Slot {
	return &Slot{site: render.Empty(), static: assets.Files{}}
}

// Load returns the current snapshot.
func (s *Slot) Load() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Site: s.site, Static: s.static}
}

// Publish replaces both the site and the static files.
func (s *Slot) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap.Site != nil {
		s.site = snap.Site
	}
	if snap.Static != nil {
		s.static = snap.Static
	}
}

// PublishStatic replaces only the static files.
func (s *Slot) PublishStatic(static assets.Files) {
	s.Publish(Snapshot{Static: static})
}
