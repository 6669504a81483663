package news

import (
	"sort"
	"sync"
	"time"
)

// Store holds the latest parsed announcement feed. Refresh tasks
// publish a complete replacement; handlers read whatever is current.
type Store struct {
	mu          sync.RWMutex
	metadata    *Metadata
	items       []Item
	refreshedAt time.Time
}

func NewStore() *Store {
	return &Store{}
}

// Publish replaces the store's contents, newest items first.
func (s *Store) Publish(metadata *Metadata, items []Item) {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = metadata
	s.items = sorted
	s.refreshedAt = time.Now().UTC()
}

// Latest returns up to limit items; limit <= 0 returns all.
func (s *Store) Latest(limit int) (*Metadata, []Item) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.items
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return s.metadata, items
}

// Count returns the number of published items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
