// Package memory keeps the latest accepted snapshot for the HTTP adapter.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/couchcryptid/storm-track-geojson/internal/domain"
)

// Store holds the most recent snapshot. It implements pipeline.Loader and
// is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	snap   domain.Snapshot
	storms map[string]domain.FeatureCollection // keyed by upper-cased name
	loaded bool
}

func NewStore() *Store {
	return &Store{}
}

// Load replaces the held snapshot.
func (s *Store) Load(_ context.Context, snap domain.Snapshot) error {
	storms := make(map[string]domain.FeatureCollection)
	for name, fc := range snap.Storms() {
		storms[strings.ToUpper(name)] = fc
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
	s.storms = storms
	s.loaded = true
	return nil
}

// Snapshot returns the latest snapshot, or false before the first Load.
func (s *Store) Snapshot() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap, s.loaded
}

// Collection returns one storm's features. Names match ignoring case.
func (s *Store) Collection(storm string) (domain.FeatureCollection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fc, ok := s.storms[strings.ToUpper(storm)]
	return fc, ok
}

// Storms returns the storm names in the latest snapshot, sorted.
func (s *Store) Storms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.StormNames(s.snap.Features)
}
