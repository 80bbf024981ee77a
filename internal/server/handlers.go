package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kavak/tradeup/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "tradeup-engine",
	}

	s.writeJSON(w, http.StatusOK, response)
}

// ConfigResponse is the GET /api/config payload.
type ConfigResponse struct {
	Config      domain.EngineConfig `json:"config"`
	ConfigHash  string              `json:"config_hash"`
	LastUpdated *time.Time          `json:"last_updated,omitempty"`
}

// handleGetConfig returns the active engine configuration and its hash.
// GET /api/config
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, updated := s.configs.Get()

	hash, err := s.engine.Hash(cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to hash active config")
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := ConfigResponse{Config: cfg, ConfigHash: hash}
	if !updated.IsZero() {
		resp.LastUpdated = &updated
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handlePutConfig validates, persists and activates a new configuration.
// PUT /api/config
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg domain.EngineConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	// Hash doubles as structural validation: it round-trips the config
	// through canonical JSON before anything is persisted.
	hash, err := s.engine.Hash(cfg)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	if err := s.configs.Put(cfg); err != nil {
		s.log.Error().Err(err).Msg("Failed to persist config")
		s.writeError(w, http.StatusInternalServerError, "Failed to persist config")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":      "success",
		"config_hash": hash,
	})
}

// handleConfigHash returns the canonical hash of the active configuration.
// GET /api/config/hash
func (s *Server) handleConfigHash(w http.ResponseWriter, r *http.Request) {
	cfg, _ := s.configs.Get()
	hash, err := s.engine.Hash(cfg)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to hash active config")
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"config_hash": hash})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
