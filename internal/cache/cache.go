// Package cache implements the offer cache: finalized offer sets keyed by
// (customer id, config hash) with a TTL. The in-memory store is the default;
// a sqlite-backed store can replace it transparently. All writes are
// best-effort and a cache failure never fails the caller. Corrupted entries
// read as misses and are evicted.
package cache

import (
	"time"

	"github.com/kavak/tradeup/internal/domain"
)

// DefaultTTL is applied when the host does not configure one.
const DefaultTTL = 24 * time.Hour

// Store is the offer-cache backend contract. Implementations must be safe
// for concurrent readers and writers.
type Store interface {
	Get(key string) (*domain.GenerateResult, bool)
	Put(key string, result *domain.GenerateResult) error
	// Sweep removes expired entries and reports how many were dropped.
	Sweep() (int, error)
	Close() error
}
