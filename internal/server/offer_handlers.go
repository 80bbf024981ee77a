package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kavak/tradeup/internal/domain"
	"github.com/kavak/tradeup/internal/modules/finance"
	"github.com/kavak/tradeup/internal/modules/offers"
)

// GenerateRequest is the body of POST /api/offers/generate. Inventory and
// config are optional: the server-loaded inventory and the active stored
// config fill the gaps. A job_id enables SSE progress via /api/offers/stream.
type GenerateRequest struct {
	Customer  domain.Customer        `json:"customer"`
	Inventory []domain.InventoryItem `json:"inventory,omitempty"`
	Config    *domain.EngineConfig   `json:"config,omitempty"`
	JobID     string                 `json:"job_id,omitempty"`
}

// GenerateResponse wraps the engine result with the job id used for progress
// streaming.
type GenerateResponse struct {
	JobID string `json:"job_id"`
	domain.GenerateResult
}

// handleGenerate runs the offer engine for one customer.
// POST /api/offers/generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	inventory := req.Inventory
	if inventory == nil {
		inventory = s.inventory
	}

	var cfg domain.EngineConfig
	if req.Config != nil {
		cfg = *req.Config
	} else {
		cfg, _ = s.configs.Get()
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	}

	progress := func(event offers.ProgressEvent) {
		event.JobID = jobID
		s.broker.Publish(event)
	}

	result, err := s.engine.Generate(r.Context(), req.Customer, inventory, cfg, progress)
	s.broker.Close(jobID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.log.Info().
		Str("customer_id", req.Customer.ID).
		Str("strategy", string(result.Summary.Strategy)).
		Int("offers", result.Summary.TotalOffers).
		Bool("cache_hit", result.Summary.CacheHit).
		Bool("cancelled", result.Summary.Cancelled).
		Msg("Offer generation completed")

	s.writeJSON(w, http.StatusOK, GenerateResponse{JobID: jobID, GenerateResult: *result})
}

// handleAmortization builds a month-by-month payment schedule.
// POST /api/offers/amortization
func (s *Server) handleAmortization(w http.ResponseWriter, r *http.Request) {
	var params finance.LoanParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}

	rows, err := s.engine.AmortizationTable(params)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rows":   rows,
		"months": len(rows),
	})
}

// writeEngineError maps engine errors onto HTTP statuses. Validation-class
// errors are client faults; everything else is a 500.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	var (
		customerErr *domain.InvalidCustomerError
		configErr   *domain.InvalidConfigError
		rangeErr    *domain.InvalidRangeError
		loanErr     *domain.InvalidLoanParamsError
	)
	switch {
	case errors.As(err, &customerErr),
		errors.As(err, &configErr),
		errors.As(err, &rangeErr),
		errors.As(err, &loanErr):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.log.Error().Err(err).Msg("Offer engine failure")
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
