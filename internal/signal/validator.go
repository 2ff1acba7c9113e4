package signal

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
)

const (
	maxStrike  = 10000.0
	maxPremium = 1000.0
)

var symbolPattern = regexp.MustCompile(`^[A-Za-z]{1,10}$`)

// RawSignal is the untrusted payload as it arrives at the parsed-field
// boundary. Quantity is a pointer so an absent field can default to 1.
type RawSignal struct {
	Action   string  `json:"action"`
	Symbol   string  `json:"symbol"`
	Strike   float64 `json:"strike"`
	Expiry   string  `json:"expiry"`
	Premium  float64 `json:"premium"`
	Quantity *int    `json:"quantity,omitempty"`
}

// Validator normalizes and validates raw payloads into canonical
// TradingSignal values. Expiry validity is evaluated against the injected
// clock at call time, so a signal that was valid when created can become
// invalid if replayed after its expiry passes.
type Validator struct {
	now func() time.Time
}

// NewValidator creates a validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// NewValidatorWithClock creates a validator with an injected clock.
func NewValidatorWithClock(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Validate checks every field of the raw payload and returns the canonical
// signal. Checks are fail-fast: the first violated rule is returned and the
// remaining fields are not inspected. A signal is never partially valid.
//
// Decimal fields are rounded to 2 places, half up.
func (v *Validator) Validate(raw RawSignal) (*domain.TradingSignal, error) {
	action := domain.SignalAction(strings.ToLower(strings.TrimSpace(raw.Action)))
	if action != domain.SellPut && action != domain.SellCall {
		return nil, fmt.Errorf("validate action %q: %w", raw.Action, ports.ErrInvalidAction)
	}

	symbol := strings.TrimSpace(raw.Symbol)
	if !symbolPattern.MatchString(symbol) {
		return nil, fmt.Errorf("validate symbol %q: %w", raw.Symbol, ports.ErrInvalidSymbol)
	}
	symbol = strings.ToUpper(symbol)

	if raw.Strike <= 0 || raw.Strike > maxStrike {
		return nil, fmt.Errorf("validate strike %v: %w", raw.Strike, ports.ErrInvalidStrike)
	}
	strike, _ := decimal.NewFromFloat(raw.Strike).Round(2).Float64()

	if raw.Premium <= 0 || raw.Premium > maxPremium {
		return nil, fmt.Errorf("validate premium %v: %w", raw.Premium, ports.ErrInvalidPremium)
	}
	premium, _ := decimal.NewFromFloat(raw.Premium).Round(2).Float64()

	expiry, err := time.Parse(time.DateOnly, strings.TrimSpace(raw.Expiry))
	if err != nil {
		return nil, fmt.Errorf("validate expiry %q: %w", raw.Expiry, ports.ErrInvalidExpiryFormat)
	}
	today := v.today()
	if !expiry.After(today) {
		return nil, fmt.Errorf("validate expiry %q against %s: %w",
			raw.Expiry, today.Format(time.DateOnly), ports.ErrExpiryNotInFuture)
	}

	quantity := 1
	if raw.Quantity != nil {
		if *raw.Quantity <= 0 {
			return nil, fmt.Errorf("validate quantity %d: %w", *raw.Quantity, ports.ErrInvalidQuantity)
		}
		quantity = *raw.Quantity
	}

	return &domain.TradingSignal{
		Action:   action,
		Symbol:   symbol,
		Strike:   strike,
		Expiry:   expiry,
		Premium:  premium,
		Quantity: quantity,
	}, nil
}

// today truncates the clock to a calendar date in UTC so the expiry
// comparison is strictly date-against-date.
func (v *Validator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Raw converts a validated signal back into its payload form. Used when a
// machine-generated recommendation is pushed through the same validation
// and submission path as external signals.
func Raw(sig *domain.TradingSignal) RawSignal {
	qty := sig.Quantity
	return RawSignal{
		Action:   string(sig.Action),
		Symbol:   sig.Symbol,
		Strike:   sig.Strike,
		Expiry:   sig.ExpiryString(),
		Premium:  sig.Premium,
		Quantity: &qty,
	}
}
