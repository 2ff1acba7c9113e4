// Package alpacaclient adapts the Alpaca trading API to the
// ports.BrokerClient interface. Paper trading is the default environment.
package alpacaclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
)

const paperBaseURL = "https://paper-api.alpaca.markets"

// Client implements the ports.BrokerClient interface using the
// alpaca-trade-api-go library.
type Client struct {
	api     *alpaca.Client
	logger  ports.Logger
	limiter *rate.Limiter
}

// Config holds configuration specific to the Alpaca client adapter.
type Config struct {
	APIKey         string
	SecretKey      string
	BaseURL        string // Defaults to the paper trading environment
	Logger         ports.Logger
	RatePerMinute  int           // Request budget for the limiter (default 60/min)
	RequestTimeout time.Duration // Per-request HTTP timeout (default 10s)
}

// New creates a new Alpaca client adapter and verifies the account is
// reachable, mirroring a connection check at startup.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Alpaca client")
	}
	if cfg.APIKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("alpaca API credentials are required: %w", ports.ErrConfigurationError)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = paperBaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perMinute := cfg.RatePerMinute
	if perMinute <= 0 {
		perMinute = 60
	}

	api := alpaca.NewClient(alpaca.ClientOpts{
		APIKey:     cfg.APIKey,
		APISecret:  cfg.SecretKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})

	c := &Client{
		api:     api,
		logger:  cfg.Logger,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), 1),
	}

	account, err := api.GetAccount()
	if err != nil {
		return nil, c.handleError(context.Background(), err, "GetAccount")
	}
	cfg.Logger.Info(context.Background(), "Connected to Alpaca", map[string]interface{}{
		"baseURL":       baseURL,
		"accountStatus": account.Status,
	})
	return c, nil
}

// SubmitOrder places a sell-to-open limit order for the option instrument.
// A single attempt is made; a context deadline maps to ports.ErrTimeout.
func (c *Client) SubmitOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResult, error) {
	op := "SubmitOrder"
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, c.handleError(ctx, err, op)
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	limitPrice := decimal.NewFromFloat(req.LimitPrice)
	clientOrderID := uuid.NewString()

	orderReq := alpaca.PlaceOrderRequest{
		Symbol:        req.InstrumentID,
		Qty:           &qty,
		Side:          toSide(req.Side),
		Type:          alpaca.Limit,
		LimitPrice:    &limitPrice,
		TimeInForce:   toTimeInForce(req.TimeInForce),
		ClientOrderID: clientOrderID,
	}

	c.logger.Info(ctx, op+": placing option order", map[string]interface{}{
		"instrument":    req.InstrumentID,
		"side":          req.Side,
		"quantity":      req.Quantity,
		"limitPrice":    req.LimitPrice,
		"timeInForce":   req.TimeInForce,
		"clientOrderID": clientOrderID,
	})

	// The underlying client is not context-aware, so the call runs in a
	// goroutine and the result races the context deadline. There is no
	// mid-flight abort: on timeout the order may still reach the broker.
	type placed struct {
		order *alpaca.Order
		err   error
	}
	done := make(chan placed, 1)
	go func() {
		order, err := c.api.PlaceOrder(orderReq)
		done <- placed{order: order, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, c.handleError(ctx, ctx.Err(), op)
	case res := <-done:
		if res.err != nil {
			return nil, c.handleError(ctx, res.err, op)
		}
		c.logger.Info(ctx, op+": order accepted", map[string]interface{}{
			"orderID": res.order.ID,
			"status":  res.order.Status,
		})
		return &ports.OrderResult{
			OrderRef:      res.order.ID,
			ClientOrderID: res.order.ClientOrderID,
			Status:        string(res.order.Status),
			SubmittedAt:   res.order.SubmittedAt,
		}, nil
	}
}

// handleError translates Alpaca API errors into standardized ports errors.
func (c *Client) handleError(ctx context.Context, err error, operation string) error {
	if err == nil {
		return nil
	}

	fields := map[string]interface{}{"operation": operation, "originalError": err.Error()}

	var apiErr *alpaca.APIError
	if errors.As(err, &apiErr) {
		fields["apiErrorCode"] = apiErr.Code
		fields["apiErrorMessage"] = apiErr.Message

		var mappedErr error
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			mappedErr = ports.ErrAuthenticationFailed
		case http.StatusTooManyRequests:
			mappedErr = ports.ErrRateLimited
		case http.StatusUnprocessableEntity:
			mappedErr = ports.ErrOrderRejected
		case http.StatusBadRequest:
			mappedErr = ports.ErrInvalidRequest
		default:
			if apiErr.StatusCode >= 500 {
				mappedErr = ports.ErrBrokerUnavailable
			} else {
				mappedErr = ports.ErrOrderPlacementFailed
			}
		}
		finalErr := fmt.Errorf("%s failed: %w: %w", operation, mappedErr, err)
		c.logger.Error(ctx, err, fmt.Sprintf("%s failed with API error", operation), fields)
		return finalErr
	}

	var finalErr error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		finalErr = fmt.Errorf("%s operation canceled: %w: %w", operation, ports.ErrContextCanceled, err)
	default:
		finalErr = fmt.Errorf("%s failed: %w: %w", operation, ports.ErrBrokerUnavailable, err)
	}
	c.logger.Error(ctx, err, fmt.Sprintf("%s failed", operation), fields)
	return finalErr
}

func toSide(side domain.OrderSide) alpaca.Side {
	if side == domain.Buy {
		return alpaca.Buy
	}
	return alpaca.Sell
}

func toTimeInForce(tif domain.TimeInForce) alpaca.TimeInForce {
	if tif == domain.GTC {
		return alpaca.GTC
	}
	return alpaca.Day
}
