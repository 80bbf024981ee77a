package domain

// RiskTables holds the process-wide risk-profile lookup tables. They are
// loaded once at startup and injected into the engine; the engine never reads
// them from a global.
type RiskTables struct {
	// InterestRates maps risk profile name to annual base rate.
	InterestRates map[string]float64 `json:"interest_rates"`
	// MinDownPayment maps risk index to a per-term minimum down-payment
	// fraction of the car price.
	MinDownPayment map[int]map[int]float64 `json:"min_down_payment"`
	// Insurance maps risk profile name to a fixed insurance amount.
	Insurance map[string]float64 `json:"insurance"`
}

// BaseRate returns the annual base rate for a risk profile.
func (t *RiskTables) BaseRate(profile string) (float64, bool) {
	rate, ok := t.InterestRates[profile]
	return rate, ok
}

// MinDown returns the minimum down-payment fraction for (risk index, term).
func (t *RiskTables) MinDown(riskIndex, termMonths int) (float64, bool) {
	row, ok := t.MinDownPayment[riskIndex]
	if !ok {
		return 0, false
	}
	frac, ok := row[termMonths]
	return frac, ok
}

// InsuranceAmount returns the table insurance amount for a risk profile.
func (t *RiskTables) InsuranceAmount(profile string) (float64, bool) {
	amount, ok := t.Insurance[profile]
	return amount, ok
}

// KnownProfile reports whether the profile exists in all three tables'
// name-keyed dimensions.
func (t *RiskTables) KnownProfile(profile string) bool {
	if _, ok := t.InterestRates[profile]; !ok {
		return false
	}
	_, ok := t.Insurance[profile]
	return ok
}
