package domain

import "time"

// TradingSignal is a validated, normalized trading intent.
// Immutable once produced by the validator; all downstream code operates
// only on this form, never on raw payload fields.
type TradingSignal struct {
	Action   SignalAction `json:"action"`   // sell_put or sell_call
	Symbol   string       `json:"symbol"`   // Underlying symbol, uppercase (e.g., "AAPL")
	Strike   float64      `json:"strike"`   // Strike price, rounded to 2 decimal places
	Expiry   time.Time    `json:"expiry"`   // Option expiry date (calendar date, no time component)
	Premium  float64      `json:"premium"`  // Limit premium, rounded to 2 decimal places
	Quantity int          `json:"quantity"` // Number of contracts (defaults to 1)
}

// ExpiryString returns the expiry formatted as an ISO calendar date.
func (s *TradingSignal) ExpiryString() string {
	return s.Expiry.Format(time.DateOnly)
}
