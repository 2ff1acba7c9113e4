package ports

import (
	"context"

	"wheelStrategyBot/internal/domain"
)

// SubmissionResult is what a submission path reports back to the advisor.
type SubmissionResult struct {
	RecordID int64               // Signal record ID, when known
	Status   domain.SignalStatus // Terminal status of this attempt
	Detail   string              // Human-readable submission detail
}

// SignalSubmitter forwards an approved signal into the order pipeline,
// either in-process or through the webhook transport boundary.
type SignalSubmitter interface {
	SubmitSignal(ctx context.Context, sig *domain.TradingSignal) (*SubmissionResult, error)
}

// Approver is the synchronous human-in-the-loop gate for recommended trades.
// Implementations may prompt a console, call an API, or be a test double;
// the advisor never submits without an explicit approval.
type Approver interface {
	Approve(ctx context.Context, sig *domain.TradingSignal) (bool, error)
}
