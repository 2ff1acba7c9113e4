package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Signal Validation Errors
	ErrInvalidAction       = errors.New("action must be sell_put or sell_call")
	ErrInvalidSymbol       = errors.New("symbol must contain only letters and be 1-10 characters long")
	ErrInvalidStrike       = errors.New("strike price must be greater than 0 and at most 10000")
	ErrInvalidPremium      = errors.New("premium must be greater than 0 and at most 1000")
	ErrInvalidExpiryFormat = errors.New("expiry date must be in YYYY-MM-DD format")
	ErrExpiryNotInFuture   = errors.New("expiry date must be in the future")
	ErrInvalidQuantity     = errors.New("quantity must be a positive integer")

	// Encoding Errors
	ErrStrikeFieldOverflow = errors.New("strike does not fit the 8-digit OCC strike field")

	// Broker Specific Errors
	ErrBrokerUnavailable    = errors.New("broker API is unavailable")
	ErrAuthenticationFailed = errors.New("broker authentication failed (check API keys)")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrInsufficientFunds    = errors.New("insufficient funds for operation")
	ErrOrderRejected        = errors.New("order rejected by broker")
	ErrOrderPlacementFailed = errors.New("failed to place order")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)

// IsValidationError reports whether err is one of the signal validation
// sentinels. Validation failures are rejected before any record is created
// and must surface to the caller as a 4xx-style rejection, never a retry.
func IsValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrInvalidAction,
		ErrInvalidSymbol,
		ErrInvalidStrike,
		ErrInvalidPremium,
		ErrInvalidExpiryFormat,
		ErrExpiryNotInFuture,
		ErrInvalidQuantity,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
