package domain

// WheelState is the single persisted snapshot of the wheel strategy cycle.
// One bot instance, one position at a time. The bot does not observe
// broker-side assignment, so Phase and SharesHeld can diverge from the real
// portfolio if the operator's fills differ from the recorded transitions.
type WheelState struct {
	Phase      WheelPhase     `json:"state"`
	SharesHeld int            `json:"shares_held"`
	LastAction *TradingSignal `json:"last_action"`
}

// NewWheelState returns the initial "no position" state.
func NewWheelState() *WheelState {
	return &WheelState{Phase: PhaseCash, SharesHeld: 0}
}
