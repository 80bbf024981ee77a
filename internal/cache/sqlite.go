package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/kavak/tradeup/internal/database"
	"github.com/kavak/tradeup/internal/domain"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS offer_cache (
    key        TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_offer_cache_expires ON offer_cache(expires_at);
`

// SQLiteStore persists finalized offer sets in a cache-profile sqlite
// database, msgpack-encoded. It satisfies the same Store contract as the
// memory store and can replace it transparently.
type SQLiteStore struct {
	db  *database.DB
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the cache database at path.
func NewSQLiteStore(path string, ttl time.Duration, log zerolog.Logger) (*SQLiteStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	db, err := database.New(database.Config{
		Path:    path,
		Profile: database.ProfileCache,
		Name:    "offer_cache",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open offer cache database: %w", err)
	}
	if _, err := db.Conn().Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create offer cache schema: %w", err)
	}
	return &SQLiteStore{
		db:  db,
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("component", "offer_cache_sqlite").Logger(),
	}, nil
}

// Get returns the cached result for a key. Expired rows read as misses;
// corrupted payloads are evicted and read as misses.
func (s *SQLiteStore) Get(key string) (*domain.GenerateResult, bool) {
	var (
		payload   []byte
		expiresAt int64
	)
	err := s.db.Conn().QueryRow(
		`SELECT payload, expires_at FROM offer_cache WHERE key = ?`, key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache read failed, treating as miss")
		return nil, false
	}
	if s.now().Unix() > expiresAt {
		s.evict(key)
		return nil, false
	}

	var result domain.GenerateResult
	if err := msgpack.Unmarshal(payload, &result); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Corrupt cache entry, evicting")
		s.evict(key)
		return nil, false
	}
	return &result, true
}

// Put upserts a result with a fresh TTL.
func (s *SQLiteStore) Put(key string, result *domain.GenerateResult) error {
	payload, err := msgpack.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO offer_cache (key, payload, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		key, payload, s.now().Add(s.ttl).Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Sweep deletes all expired rows.
func (s *SQLiteStore) Sweep() (int, error) {
	res, err := s.db.Conn().Exec(`DELETE FROM offer_cache WHERE expires_at < ?`, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep cache: %w", err)
	}
	dropped, _ := res.RowsAffected()
	if dropped > 0 {
		s.log.Debug().Int64("dropped", dropped).Msg("Swept expired cache entries")
	}
	return int(dropped), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) evict(key string) {
	if _, err := s.db.Conn().Exec(`DELETE FROM offer_cache WHERE key = ?`, key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Cache eviction failed")
	}
}
