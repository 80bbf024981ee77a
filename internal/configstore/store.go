// Package configstore persists the engine configuration on disk as canonical
// JSON. The persisted form is the same canonical rendering the config hash
// digests, plus a last_updated timestamp that the hash ignores.
package configstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/offers"
)

// Store holds the active engine configuration, backed by a JSON file.
// Safe for concurrent readers and writers.
type Store struct {
	mu          sync.RWMutex
	path        string
	config      domain.EngineConfig
	lastUpdated time.Time
	now         func() time.Time
	log         zerolog.Logger
}

// New loads the configuration file at path, falling back to defaults when
// the file does not exist yet.
func New(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		config: domain.DefaultEngineConfig(),
		now:    time.Now,
		log:    log.With().Str("component", "config_store").Logger(),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.log.Info().Str("path", path).Msg("No config file found, using defaults")
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var persisted persistedConfig
	if err := json.Unmarshal(data, &persisted); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	s.config = persisted.EngineConfig
	s.config.ApplyDefaults()
	s.lastUpdated = persisted.LastUpdated
	s.log.Info().Str("path", path).Time("last_updated", persisted.LastUpdated).Msg("Config loaded")
	return s, nil
}

// persistedConfig is the on-disk envelope: the engine config fields plus
// last_updated at the top level, matching the hash's strip rule.
type persistedConfig struct {
	domain.EngineConfig
	LastUpdated time.Time `json:"last_updated"`
}

// Get returns a copy of the current configuration and when it was last
// written.
func (s *Store) Get() (domain.EngineConfig, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.lastUpdated
}

// Put validates structurally, persists, and activates a new configuration.
func (s *Store) Put(cfg domain.EngineConfig) error {
	cfg.ApplyDefaults()

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.now().UTC()
	if err := s.write(cfg, updated); err != nil {
		return err
	}
	s.config = cfg
	s.lastUpdated = updated
	s.log.Info().Str("strategy", string(cfg.Strategy)).Msg("Config updated")
	return nil
}

// write renders the canonical config JSON, splices in last_updated, and
// writes atomically via a temp file rename.
func (s *Store) write(cfg domain.EngineConfig, updated time.Time) error {
	canonical, err := offers.CanonicalConfigJSON(cfg)
	if err != nil {
		return fmt.Errorf("failed to canonicalize config: %w", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(canonical, &obj); err != nil {
		return fmt.Errorf("failed to reopen canonical config: %w", err)
	}
	stamp, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}
	obj["last_updated"] = stamp

	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}
