// Package occ builds OCC-style option instrument identifiers:
// underlying symbol, two-digit year/month/day of expiry, right code
// (P or C), and the strike price times 1000 zero-padded to 8 digits.
// Example: AAPL 2024-07-19 put at 180.00 -> AAPL240719P00180000.
package occ

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
)

// maxStrikeField is the first value that no longer fits 8 digits.
const maxStrikeField = 100_000_000

// Encode maps (symbol, expiry, right, strike) to the fixed-width
// identifier. The strike field is strike*1000 rounded half up to an
// integer. Strikes whose field would exceed 8 digits are rejected rather
// than silently truncated; the validator's strike ceiling already prevents
// this, but the encoder defends independently since it is reusable.
func Encode(symbol string, expiry time.Time, right domain.OptionRight, strike float64) (string, error) {
	strikeField := decimal.NewFromFloat(strike).Mul(decimal.NewFromInt(1000)).Round(0).IntPart()
	if strikeField >= maxStrikeField {
		return "", fmt.Errorf("encode strike %v for %s: %w", strike, symbol, ports.ErrStrikeFieldOverflow)
	}
	return fmt.Sprintf("%s%s%s%08d", symbol, expiry.Format("060102"), right, strikeField), nil
}
