// Package likes holds the set of images the user liked locally.
//
// Membership is the only thing that decides whether an image's displayed
// like count carries the local +1. The set is read from storage once at
// startup and every mutation overwrites the stored value in full.
package likes

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/five82/easel/internal/kv"
)

// StorageKey is the single key the set lives under.
const StorageKey = "liked-images-persistency"

// Set is a concurrency-safe set of image ids.
type Set struct {
	mu  sync.RWMutex
	ids map[string]struct{}
}

// NewSet returns a set holding ids. Duplicates collapse.
func NewSet(ids ...string) *Set {
	s := &Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.ids[id] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s *Set) Has(id string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add inserts id and reports whether the set changed.
func (s *Set) Add(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether the set changed. Removing an absent
// id is a no-op.
func (s *Set) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return false
	}
	delete(s.ids, id)
	return true
}

// Len returns the number of liked ids.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the members sorted, so stored values are stable.
func (s *Set) IDs() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns an immutable view for lock-free reads during rendering.
func (s *Set) Snapshot() map[string]struct{} {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]struct{}, len(s.ids))
	for id := range s.ids {
		out[id] = struct{}{}
	}
	return out
}

// Load reads the set from store. A missing key yields an empty set.
func Load(store kv.Store) (*Set, error) {
	raw, err := store.Get(StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load liked set: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode liked set: %w", err)
	}
	return NewSet(ids...), nil
}

// Save overwrites the stored set with the current members.
func Save(store kv.Store, s *Set) error {
	ids := s.IDs()
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode liked set: %w", err)
	}
	if err := store.Put(StorageKey, raw); err != nil {
		return fmt.Errorf("save liked set: %w", err)
	}
	return nil
}
