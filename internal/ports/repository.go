package ports

import (
	"context"

	"wheelStrategyBot/internal/domain"
)

// SignalRecordRepository defines the interface for the signal audit trail.
// Records are append-only: they are created in pending status and updated
// to exactly one terminal status per submission attempt, never deleted.
type SignalRecordRepository interface {
	// Create saves a new record and returns its assigned ID.
	Create(ctx context.Context, rec *domain.SignalRecord) (int64, error)
	// UpdateStatus moves an existing record to a new lifecycle status,
	// persisting the broker order ref, error message, and processed
	// timestamp carried on the record.
	UpdateStatus(ctx context.Context, rec *domain.SignalRecord) error
	// FindByID retrieves a record by its unique ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id int64) (*domain.SignalRecord, error)
	// ListRecent retrieves the most recent records, newest first, up to a limit.
	ListRecent(ctx context.Context, limit int) ([]*domain.SignalRecord, error)
}

// WheelStateStore defines the interface for the single persisted wheel
// state slot. It is not keyed by symbol or account.
type WheelStateStore interface {
	// Load retrieves the current wheel state, or the initial cash state
	// if none has been saved yet.
	Load(ctx context.Context) (*domain.WheelState, error)
	// Save persists the wheel state, replacing the previous snapshot.
	Save(ctx context.Context, state *domain.WheelState) error
}
