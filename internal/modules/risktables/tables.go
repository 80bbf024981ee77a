// Package risktables loads the process-wide risk-profile tables consumed by
// the offer engine: annual base rates, the minimum down-payment matrix and
// fixed insurance amounts. Tables are loaded once at startup and injected
// into the engine as read-only state.
package risktables

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/kavak/tradeup/internal/domain"
)

// Profiles is the closed set of risk profile names with their indices into
// the down-payment matrix.
var Profiles = map[string]int{
	"AAA": 0,
	"AA":  1,
	"A":   2,
	"B":   3,
	"C":   4,
	"D":   5,
}

// Defaults returns the built-in tables. Rates and amounts are MXN market
// values; the down-payment matrix tightens with risk and term.
func Defaults() *domain.RiskTables {
	return &domain.RiskTables{
		InterestRates: map[string]float64{
			"AAA": 0.155,
			"AA":  0.169,
			"A":   0.185,
			"B":   0.205,
			"C":   0.235,
			"D":   0.265,
		},
		MinDownPayment: map[int]map[int]float64{
			0: {12: 0.05, 24: 0.05, 36: 0.05, 48: 0.08, 60: 0.08, 72: 0.10},
			1: {12: 0.05, 24: 0.08, 36: 0.08, 48: 0.10, 60: 0.10, 72: 0.12},
			2: {12: 0.08, 24: 0.10, 36: 0.12, 48: 0.12, 60: 0.13, 72: 0.13},
			3: {12: 0.10, 24: 0.12, 36: 0.15, 48: 0.15, 60: 0.18, 72: 0.20},
			4: {12: 0.15, 24: 0.18, 36: 0.20, 48: 0.22, 60: 0.25, 72: 0.28},
			5: {12: 0.20, 24: 0.25, 36: 0.28, 48: 0.30, 60: 0.32, 72: 0.35},
		},
		Insurance: map[string]float64{
			"AAA": 8500,
			"AA":  9500,
			"A":   10500,
			"B":   12000,
			"C":   13500,
			"D":   15000,
		},
	}
}

// Load returns the risk tables, overriding the defaults from a JSON file
// when path is non-empty. A partial override file replaces only the tables
// it defines.
func Load(path string, log zerolog.Logger) (*domain.RiskTables, error) {
	tables := Defaults()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read risk tables file: %w", err)
	}

	var override domain.RiskTables
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse risk tables file: %w", err)
	}

	if len(override.InterestRates) > 0 {
		tables.InterestRates = override.InterestRates
	}
	if len(override.MinDownPayment) > 0 {
		tables.MinDownPayment = override.MinDownPayment
	}
	if len(override.Insurance) > 0 {
		tables.Insurance = override.Insurance
	}

	log.Info().
		Str("path", path).
		Int("profiles", len(tables.InterestRates)).
		Msg("Loaded risk tables from override file")
	return tables, nil
}
