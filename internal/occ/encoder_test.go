package occ

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		expiry  time.Time
		right   domain.OptionRight
		strike  float64
		want    string
		wantErr error
	}{
		{
			name:   "reference put",
			symbol: "AAPL",
			expiry: date(2024, time.July, 19),
			right:  domain.Put,
			strike: 180.0,
			want:   "AAPL240719P00180000",
		},
		{
			name:   "call right code",
			symbol: "AAPL",
			expiry: date(2024, time.July, 19),
			right:  domain.Call,
			strike: 190.0,
			want:   "AAPL240719C00190000",
		},
		{
			name:   "fractional strike",
			symbol: "SPY",
			expiry: date(2025, time.January, 17),
			right:  domain.Call,
			strike: 412.5,
			want:   "SPY250117C00412500",
		},
		{
			name:   "sub-cent fraction rounds half up",
			symbol: "MSFT",
			expiry: date(2024, time.December, 20),
			right:  domain.Put,
			strike: 123.4565,
			want:   "MSFT241220P00123457",
		},
		{
			name:   "small strike is fully padded",
			symbol: "F",
			expiry: date(2024, time.August, 16),
			right:  domain.Put,
			strike: 0.5,
			want:   "F240816P00000500",
		},
		{
			name:   "maximum validated strike fits",
			symbol: "BRK",
			expiry: date(2024, time.August, 16),
			right:  domain.Call,
			strike: 10000.0,
			want:   "BRK240816C10000000",
		},
		{
			name:    "strike field overflow rejected",
			symbol:  "BRK",
			expiry:  date(2024, time.August, 16),
			right:   domain.Call,
			strike:  100000.0,
			wantErr: ports.ErrStrikeFieldOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.symbol, tt.expiry, tt.right, tt.strike)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			// Symbol plus yymmdd plus right plus 8-digit strike field.
			assert.Len(t, got, len(tt.symbol)+6+1+8)
		})
	}
}
