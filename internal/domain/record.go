package domain

import "time"

// SignalRecord is the persisted lifecycle record for a received signal.
// Records form an append-only audit trail: they are created in pending
// status the moment a signal passes validation and are never deleted.
type SignalRecord struct {
	ID       int64 // Unique identifier for the record (assigned by the DB)
	Action   SignalAction
	Symbol   string
	Strike   float64
	Expiry   time.Time
	Premium  float64
	Quantity int

	Status         SignalStatus // pending, processed, error, no_broker
	BrokerOrderRef *string      // Broker order reference (nullable in DB)
	ErrorMessage   *string      // Failure detail when Status is error/no_broker
	CreatedAt      time.Time    // Timestamp when the record was created
	ProcessedAt    time.Time    // Timestamp of successful submission (zero value if none)
}

// NewSignalRecord builds a pending record from a validated signal.
func NewSignalRecord(sig *TradingSignal, now time.Time) *SignalRecord {
	return &SignalRecord{
		Action:    sig.Action,
		Symbol:    sig.Symbol,
		Strike:    sig.Strike,
		Expiry:    sig.Expiry,
		Premium:   sig.Premium,
		Quantity:  sig.Quantity,
		Status:    StatusPending,
		CreatedAt: now,
	}
}
