// Package strategy implements the wheel options strategy state machine:
// sell a cash-secured put, accept assignment into shares, sell a covered
// call against them, and return to cash when the shares are called away.
package strategy

import (
	"fmt"
	"time"

	"wheelStrategyBot/internal/domain"
)

// Config holds the machine's recommendation parameters.
type Config struct {
	Symbol      string  // Underlying the wheel runs on (e.g., "AAPL")
	PutStrike   float64 // Strike for recommended cash-secured puts
	PutPremium  float64 // Limit premium for recommended puts
	CallStrike  float64 // Strike for recommended covered calls
	CallPremium float64 // Limit premium for recommended calls
	Now         func() time.Time
}

// Machine produces the next recommended signal for a wheel state.
// Recommend is a pure function of the state snapshot; state advancement
// happens only through Apply after explicit external approval, never
// automatically.
type Machine struct {
	cfg Config
	now func() time.Time
}

// New validates the configuration and creates a wheel machine.
func New(cfg Config) (*Machine, error) {
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("wheel strategy requires a symbol")
	}
	if cfg.PutStrike <= 0 || cfg.CallStrike <= 0 {
		return nil, fmt.Errorf("wheel strategy strikes must be positive")
	}
	if cfg.PutPremium <= 0 || cfg.CallPremium <= 0 {
		return nil, fmt.Errorf("wheel strategy premiums must be positive")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Machine{cfg: cfg, now: now}, nil
}

// Recommend returns the next signal for the given state, or nil when no
// action is recommended. In waiting_assignment the machine waits for the
// external assignment event (see MarkAssigned); it cannot observe
// assignment itself.
func (m *Machine) Recommend(state *domain.WheelState) *domain.TradingSignal {
	switch state.Phase {
	case domain.PhaseCash:
		return &domain.TradingSignal{
			Action:   domain.SellPut,
			Symbol:   m.cfg.Symbol,
			Strike:   m.cfg.PutStrike,
			Expiry:   NextExpiry(m.now()),
			Premium:  m.cfg.PutPremium,
			Quantity: 1,
		}
	case domain.PhaseAssigned:
		return &domain.TradingSignal{
			Action:   domain.SellCall,
			Symbol:   m.cfg.Symbol,
			Strike:   m.cfg.CallStrike,
			Expiry:   NextExpiry(m.now()),
			Premium:  m.cfg.CallPremium,
			Quantity: 1,
		}
	default:
		return nil
	}
}

// Apply advances the state after a recommendation was approved and
// submitted. Selling a put moves cash to waiting_assignment; selling a
// call assumes the shares are called away and returns to cash with zero
// shares. The transition is applied regardless of the downstream
// submission outcome, mirroring the approval flow this bot started with.
func (m *Machine) Apply(state *domain.WheelState, sig *domain.TradingSignal) {
	switch sig.Action {
	case domain.SellPut:
		state.Phase = domain.PhaseWaitingAssignment
	case domain.SellCall:
		state.Phase = domain.PhaseCash
		state.SharesHeld = 0
	}
	state.LastAction = sig
}

// MarkAssigned records the external assignment event: the sold put was
// exercised and shares were delivered. Only meaningful while waiting for
// assignment.
func (m *Machine) MarkAssigned(state *domain.WheelState, shares int) error {
	if state.Phase != domain.PhaseWaitingAssignment {
		return fmt.Errorf("cannot mark assignment in phase %q", state.Phase)
	}
	if shares <= 0 {
		return fmt.Errorf("assigned shares must be positive, got %d", shares)
	}
	state.Phase = domain.PhaseAssigned
	state.SharesHeld = shares
	return nil
}

// NextExpiry picks the third Friday of the month after today: the first
// day in the 15-21 range falling on a Friday. December rolls over to
// January of the next year.
func NextExpiry(today time.Time) time.Time {
	year, month := today.Year(), today.Month()+1
	if today.Month() == time.December {
		year, month = year+1, time.January
	}
	for day := 15; day <= 21; day++ {
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if d.Weekday() == time.Friday {
			return d
		}
	}
	// Unreachable: any 7-day window contains a Friday.
	return time.Date(year, month, 21, 0, 0, 0, 0, time.UTC)
}
