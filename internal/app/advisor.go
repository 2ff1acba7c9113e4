package app

import (
	"context"
	"fmt"
	"sync"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
	"wheelStrategyBot/internal/strategy"
)

// Advisor runs one turn of the recommendation loop: load the wheel state,
// ask the strategy machine for the next signal, put it through the approval
// gate, and on approval submit it and advance the state.
//
// The wheel state is a single shared slot, so concurrent runs are
// serialized with a mutex to avoid lost updates.
type Advisor struct {
	logger    ports.Logger
	machine   *strategy.Machine
	store     ports.WheelStateStore
	approver  ports.Approver
	submitter ports.SignalSubmitter

	mu sync.Mutex
}

// AdvisorConfig holds the advisor's collaborators.
type AdvisorConfig struct {
	Logger    ports.Logger
	Machine   *strategy.Machine
	Store     ports.WheelStateStore
	Approver  ports.Approver
	Submitter ports.SignalSubmitter
}

// NewAdvisor creates the recommendation advisor. All dependencies are required.
func NewAdvisor(cfg AdvisorConfig) (*Advisor, error) {
	if cfg.Logger == nil || cfg.Machine == nil || cfg.Store == nil || cfg.Approver == nil || cfg.Submitter == nil {
		return nil, fmt.Errorf("missing required dependencies for Advisor")
	}
	return &Advisor{
		logger:    cfg.Logger,
		machine:   cfg.Machine,
		store:     cfg.Store,
		approver:  cfg.Approver,
		submitter: cfg.Submitter,
	}, nil
}

// RunResult reports what one advisor turn did.
type RunResult struct {
	Recommended *domain.TradingSignal   // nil when the state has no recommendation
	Approved    bool                    // whether the approval gate accepted
	Submission  *ports.SubmissionResult // nil unless approved and submission returned a result
	State       *domain.WheelState      // state after the turn
}

// Run executes a single recommendation turn.
//
// On approval the state transition and last_action update are applied
// unconditionally, even when the downstream submission fails: the record
// of the attempt lives in the signal audit trail, while the wheel state
// tracks operator intent. A stricter gate on submission success is a
// deliberate non-change here.
func (a *Advisor) Run(ctx context.Context) (*RunResult, error) {
	op := "AdvisorRun"
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		a.logger.Error(ctx, err, op+": failed to load wheel state")
		return nil, fmt.Errorf("load wheel state: %w", err)
	}

	sig := a.machine.Recommend(state)
	if sig == nil {
		a.logger.Info(ctx, op+": no recommendation for current phase", map[string]interface{}{"phase": state.Phase})
		return &RunResult{State: state}, nil
	}
	a.logger.Info(ctx, op+": wheel strategy recommends", map[string]interface{}{
		"action":  sig.Action,
		"symbol":  sig.Symbol,
		"strike":  sig.Strike,
		"expiry":  sig.ExpiryString(),
		"premium": sig.Premium,
	})

	approved, err := a.approver.Approve(ctx, sig)
	if err != nil {
		a.logger.Error(ctx, err, op+": approval gate failed")
		return nil, fmt.Errorf("approval gate: %w", err)
	}
	if !approved {
		a.logger.Info(ctx, op+": trade not approved, wheel state unchanged")
		return &RunResult{Recommended: sig, State: state}, nil
	}

	result := &RunResult{Recommended: sig, Approved: true}
	submission, err := a.submitter.SubmitSignal(ctx, sig)
	if err != nil {
		a.logger.Error(ctx, err, op+": submission failed, advancing state anyway")
	} else {
		result.Submission = submission
		a.logger.Info(ctx, op+": signal submitted", map[string]interface{}{
			"recordID": submission.RecordID,
			"status":   submission.Status,
		})
	}

	a.machine.Apply(state, sig)
	if err := a.store.Save(ctx, state); err != nil {
		a.logger.Error(ctx, err, op+": failed to save wheel state")
		return nil, fmt.Errorf("save wheel state: %w", err)
	}
	a.logger.Info(ctx, op+": wheel state advanced", map[string]interface{}{
		"phase":      state.Phase,
		"sharesHeld": state.SharesHeld,
	})
	result.State = state
	return result, nil
}

// RecordAssignment injects the external assignment event into the wheel
// state: the sold put was exercised and shares were delivered. The machine
// cannot observe this itself, so the operator reports it.
func (a *Advisor) RecordAssignment(ctx context.Context, shares int) (*domain.WheelState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wheel state: %w", err)
	}
	if err := a.machine.MarkAssigned(state, shares); err != nil {
		return nil, err
	}
	if err := a.store.Save(ctx, state); err != nil {
		return nil, fmt.Errorf("save wheel state: %w", err)
	}
	a.logger.Info(ctx, "assignment recorded", map[string]interface{}{
		"sharesHeld": state.SharesHeld,
		"phase":      state.Phase,
	})
	return state, nil
}
