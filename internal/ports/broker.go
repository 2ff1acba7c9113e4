package ports

import (
	"context"
	"time"

	"wheelStrategyBot/internal/domain"
)

// OrderRequest describes a single option order to submit to the brokerage.
type OrderRequest struct {
	InstrumentID string             // OCC-style option instrument identifier
	Side         domain.OrderSide   // Always sell for this strategy
	Quantity     int                // Number of contracts
	LimitPrice   float64            // Limit price (the signal premium)
	TimeInForce  domain.TimeInForce // e.g., day
}

// OrderResult represents the essential details returned after placing an order.
type OrderResult struct {
	OrderRef      string    // Broker's order identifier
	ClientOrderID string    // Client-assigned order identifier
	Status        string    // Broker order status (e.g., new, accepted)
	SubmittedAt   time.Time // Time the broker accepted the order
}

// BrokerClient defines the interface for submitting orders to a brokerage.
// This abstraction allows decoupling the order pipeline from specific broker
// implementations. A single synchronous submission attempt is made per call;
// retries and deduplication are explicitly not provided.
type BrokerClient interface {
	// SubmitOrder places a sell-to-open option order.
	// The implementation must honor ctx cancellation and deadlines.
	SubmitOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}
