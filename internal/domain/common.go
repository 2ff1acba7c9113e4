package domain

// SignalAction represents the trading action requested by a signal.
type SignalAction string

const (
	SellPut  SignalAction = "sell_put"
	SellCall SignalAction = "sell_call"
)

// Right returns the OCC right code for the option sold by this action.
func (a SignalAction) Right() OptionRight {
	if a == SellCall {
		return Call
	}
	return Put
}

// OptionRight represents whether an option is a put or a call.
type OptionRight string

const (
	Put  OptionRight = "P"
	Call OptionRight = "C"
)

// OrderSide represents the side of an order (buy or sell).
type OrderSide string

const (
	Buy  OrderSide = "buy"
	Sell OrderSide = "sell"
)

// TimeInForce represents how long a submitted order remains active.
type TimeInForce string

const (
	Day TimeInForce = "day"
	GTC TimeInForce = "gtc"
)

// SignalStatus represents the lifecycle status of a persisted signal record.
type SignalStatus string

const (
	StatusPending   SignalStatus = "pending"
	StatusProcessed SignalStatus = "processed"
	StatusError     SignalStatus = "error"
	StatusNoBroker  SignalStatus = "no_broker"
)

// WheelPhase represents where the wheel strategy sits in its cycle.
type WheelPhase string

const (
	PhaseCash              WheelPhase = "cash"
	PhaseWaitingAssignment WheelPhase = "waiting_assignment"
	PhaseAssigned          WheelPhase = "assigned"
)
