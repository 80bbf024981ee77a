package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/domain"
)

type memoryEntry struct {
	result    *domain.GenerateResult
	expiresAt time.Time
}

// MemoryStore is the default offer-cache backend: a TTL map guarded by an
// RWMutex.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// NewMemoryStore creates an in-memory store. A non-positive ttl falls back
// to DefaultTTL.
func NewMemoryStore(ttl time.Duration, log zerolog.Logger) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
		log:     log.With().Str("component", "offer_cache").Logger(),
	}
}

// Get returns the cached result for a key, treating expired entries as
// misses and evicting them.
func (s *MemoryStore) Get(key string) (*domain.GenerateResult, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

// Put stores a result under the configured TTL.
func (s *MemoryStore) Put(key string, result *domain.GenerateResult) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{result: result, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

// Sweep drops all expired entries.
func (s *MemoryStore) Sweep() (int, error) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	dropped := 0
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
			dropped++
		}
	}
	if dropped > 0 {
		s.log.Debug().Int("dropped", dropped).Msg("Swept expired cache entries")
	}
	return dropped, nil
}

// Close implements Store; the memory store has nothing to release.
func (s *MemoryStore) Close() error { return nil }

// Len reports the number of live entries (including not-yet-swept expired
// ones); used by tests and the health handler.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
