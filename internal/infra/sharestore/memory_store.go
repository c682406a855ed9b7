package sharestore

import (
	"context"
	"sync"
	"time"

	"github.com/nurturemyplants/plantcare/internal/domain/share"
)

// MemoryStore is the default in-process share-link cache. Expired entries are
// swept on every save and enforced again at read time, so a live entry is
// always inside its lifetime when returned.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]share.Entry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithClock(time.Now)
}

// NewMemoryStoreWithClock allows tests to control expiry.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]share.Entry),
		now:     now,
	}
}

// Save implements share.Store. Every mutation doubles as the amortized
// cleanup pass; there is no background sweeper.
func (s *MemoryStore) Save(_ context.Context, entry share.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for code, existing := range s.entries {
		if existing.Expired(now) {
			delete(s.entries, code)
		}
	}

	if _, exists := s.entries[entry.ShareCode]; exists {
		return share.ErrCodeTaken
	}
	s.entries[entry.ShareCode] = entry
	return nil
}

// Get implements share.Store.
func (s *MemoryStore) Get(_ context.Context, code string) (share.Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[code]
	if !ok {
		return share.Entry{}, false, nil
	}
	if entry.Expired(s.now()) {
		delete(s.entries, code)
		return share.Entry{}, false, nil
	}
	return entry, true, nil
}

// Len reports the number of stored entries, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

var _ share.Store = (*MemoryStore)(nil)
