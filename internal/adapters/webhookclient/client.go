// Package webhookclient submits signals to the bot's own webhook endpoint
// over HTTP, letting the recommendation CLI reuse the exact intake path an
// external trigger would hit.
package webhookclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
	"wheelStrategyBot/internal/signal"
)

// Client implements ports.SignalSubmitter by POSTing to a webhook URL.
type Client struct {
	url    string
	http   *http.Client
	logger ports.Logger
}

// Config holds configuration for the webhook client.
type Config struct {
	URL     string
	Timeout time.Duration
	Logger  ports.Logger
}

// New creates a webhook submitter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for webhook client")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("webhook URL is required: %w", ports.ErrConfigurationError)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		url:    cfg.URL,
		http:   &http.Client{Timeout: timeout},
		logger: cfg.Logger,
	}, nil
}

// webhookResponse is the subset of the success envelope the advisor needs.
type webhookResponse struct {
	Status   string `json:"status"`
	SignalID int64  `json:"signal_id"`
	Detail   string `json:"detail"`
	Result   struct {
		Status       domain.SignalStatus `json:"status"`
		BrokerDetail string              `json:"broker_detail"`
	} `json:"result"`
}

// SubmitSignal POSTs the signal as a webhook payload and decodes the
// pipeline outcome from the response envelope.
func (c *Client) SubmitSignal(ctx context.Context, sig *domain.TradingSignal) (*ports.SubmissionResult, error) {
	body, err := json.Marshal(signal.Raw(sig))
	if err != nil {
		return nil, fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request to %s: %w: %w", c.url, ports.ErrBrokerUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook response: %w", err)
	}

	var decoded webhookResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode webhook response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webhook returned status %d: %s: %w", resp.StatusCode, decoded.Detail, ports.ErrInvalidRequest)
	}

	c.logger.Info(ctx, "webhook accepted signal", map[string]interface{}{
		"signalID": decoded.SignalID,
		"status":   decoded.Result.Status,
	})
	return &ports.SubmissionResult{
		RecordID: decoded.SignalID,
		Status:   decoded.Result.Status,
		Detail:   decoded.Result.BrokerDetail,
	}, nil
}
