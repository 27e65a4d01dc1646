package models

import "time"

// FxRates is a snapshot of exchange rates.
// One unit of Base equals Rates[code] units of code.
type FxRates struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Rate returns the multiplier for code relative to the base currency.
// The base currency always has rate 1.
func (r FxRates) Rate(code string) (float64, bool) {
	if code == r.Base {
		return 1, true
	}
	rate, ok := r.Rates[code]
	if !ok || rate <= 0 {
		return 0, false
	}
	return rate, true
}
