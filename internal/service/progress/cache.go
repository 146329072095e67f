package progress

import (
	"sync"

	"github.com/google/uuid"

	"github.com/bahasabuddy/api/internal/domain"
)

// progressCache is an id-keyed index of card progress records per learner.
// It is a view over the persisted rows, not the source of truth: a learner's
// index is rebuilt from the store on first access and entries are replaced
// only after a confirmed write, so a failed upsert leaves it untouched.
type progressCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]map[uuid.UUID]domain.CardProgress
}

func newProgressCache() *progressCache {
	return &progressCache{
		entries: make(map[uuid.UUID]map[uuid.UUID]domain.CardProgress),
	}
}

// loaded reports whether the learner's index has been built.
func (c *progressCache) loaded(userID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[userID]
	return ok
}

// load replaces the learner's index with the given records.
func (c *progressCache) load(userID uuid.UUID, records []domain.CardProgress) {
	index := make(map[uuid.UUID]domain.CardProgress, len(records))
	for _, r := range records {
		index[r.CardID] = r
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = index
}

// get returns a copy of the learner's record for one card.
func (c *progressCache) get(userID, cardID uuid.UUID) (*domain.CardProgress, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	index, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	entry, ok := index[cardID]
	if !ok {
		return nil, false
	}
	return &entry, true
}

// put records one confirmed write. A learner the cache has never loaded is
// skipped; the next load picks the row up from the store.
func (c *progressCache) put(progress *domain.CardProgress) {
	c.mu.Lock()
	defer c.mu.Unlock()

	index, ok := c.entries[progress.UserID]
	if !ok {
		return
	}
	index[progress.CardID] = *progress
}

// categoryCountCache memoizes per-category card counts. Catalog content only
// changes via migrations, so entries never expire within a process lifetime.
type categoryCountCache struct {
	mu     sync.RWMutex
	counts map[uuid.UUID]int
}

func newCategoryCountCache() *categoryCountCache {
	return &categoryCountCache{
		counts: make(map[uuid.UUID]int),
	}
}

func (c *categoryCountCache) get(categoryID uuid.UUID) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count, ok := c.counts[categoryID]
	return count, ok
}

func (c *categoryCountCache) put(categoryID uuid.UUID, count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[categoryID] = count
}
