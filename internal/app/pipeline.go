package app

import (
	"context"
	"fmt"
	"time"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/occ"
	"wheelStrategyBot/internal/ports"
	"wheelStrategyBot/internal/signal"
)

// SubmitResult is the pipeline outcome surfaced to the caller.
type SubmitResult struct {
	RecordID     int64                 `json:"record_id"`
	Status       domain.SignalStatus   `json:"status"`
	InstrumentID string                `json:"instrument_id"`
	Signal       *domain.TradingSignal `json:"-"`
	BrokerDetail string                `json:"broker_detail,omitempty"`
	OrderRef     string                `json:"broker_order_ref,omitempty"`
}

// Pipeline orchestrates signal intake: validate, persist a pending record,
// encode the option instrument, submit to the brokerage, and settle the
// record into a terminal status for this attempt.
//
// Failure semantics are asymmetric on purpose: a broker-leg failure is
// recorded on the SignalRecord but still reported as overall success to the
// caller. Callers learn about downstream failures from the record's status
// and error message, not from the top-level response. Only validation and
// repository failures surface as errors.
type Pipeline struct {
	logger        ports.Logger
	validator     *signal.Validator
	repo          ports.SignalRecordRepository
	broker        ports.BrokerClient // nil means simulation mode (no_broker)
	timeInForce   domain.TimeInForce
	submitTimeout time.Duration
	now           func() time.Time
}

// PipelineConfig holds the pipeline's collaborators and tuning.
type PipelineConfig struct {
	Logger        ports.Logger
	Validator     *signal.Validator
	Repo          ports.SignalRecordRepository
	Broker        ports.BrokerClient // optional; nil runs in simulation mode
	TimeInForce   domain.TimeInForce
	SubmitTimeout time.Duration
	Now           func() time.Time
}

// NewPipeline creates the order pipeline. A missing broker is allowed (the
// pipeline then records no_broker outcomes); everything else is required.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if cfg.Logger == nil || cfg.Validator == nil || cfg.Repo == nil {
		return nil, fmt.Errorf("missing required dependencies for Pipeline")
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 10 * time.Second
	}
	if cfg.TimeInForce == "" {
		cfg.TimeInForce = domain.Day
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{
		logger:        cfg.Logger,
		validator:     cfg.Validator,
		repo:          cfg.Repo,
		broker:        cfg.Broker,
		timeInForce:   cfg.TimeInForce,
		submitTimeout: cfg.SubmitTimeout,
		now:           cfg.Now,
	}, nil
}

// Submit runs a raw signal through the full pipeline.
//
// Invalid input is rejected before anything is persisted, so the audit
// trail only ever contains signals that passed validation. Each invocation
// creates a fresh record; duplicate deliveries of the same external trigger
// produce independent records, not deduplicated submissions.
func (p *Pipeline) Submit(ctx context.Context, raw signal.RawSignal) (*SubmitResult, error) {
	op := "Submit"

	sig, err := p.validator.Validate(raw)
	if err != nil {
		p.logger.Warn(ctx, op+": signal rejected by validation", map[string]interface{}{
			"action": raw.Action,
			"symbol": raw.Symbol,
			"reason": err.Error(),
		})
		return nil, err
	}

	rec := domain.NewSignalRecord(sig, p.now().UTC())
	recID, err := p.repo.Create(ctx, rec)
	if err != nil {
		p.logger.Error(ctx, err, op+": failed to create signal record")
		return nil, fmt.Errorf("create signal record: %w", err)
	}
	rec.ID = recID
	p.logger.Info(ctx, op+": signal record created", map[string]interface{}{
		"recordID": recID,
		"action":   sig.Action,
		"symbol":   sig.Symbol,
	})

	instrumentID, err := occ.Encode(sig.Symbol, sig.Expiry, sig.Action.Right(), sig.Strike)
	if err != nil {
		// Contract mismatch between validator and encoder. Never expected
		// given the validated strike ceiling, but fail safely instead of
		// emitting a malformed instrument id.
		p.logger.Error(ctx, err, op+": failed to encode option instrument", map[string]interface{}{"recordID": recID})
		p.settle(ctx, rec, domain.StatusError, err.Error(), "")
		return nil, fmt.Errorf("encode option instrument: %w", err)
	}

	result := &SubmitResult{
		RecordID:     recID,
		Signal:       sig,
		InstrumentID: instrumentID,
	}

	if p.broker == nil {
		// Simulation mode: no brokerage configured. Log the order that
		// would have been placed and report success with a degraded status.
		p.logger.Info(ctx, op+": no broker configured, simulated order", map[string]interface{}{
			"recordID":    recID,
			"instrument":  instrumentID,
			"side":        domain.Sell,
			"quantity":    sig.Quantity,
			"limitPrice":  sig.Premium,
			"timeInForce": p.timeInForce,
		})
		if err := p.settle(ctx, rec, domain.StatusNoBroker, "broker unavailable", ""); err != nil {
			return nil, err
		}
		result.Status = domain.StatusNoBroker
		result.BrokerDetail = "order logged for simulation, no broker configured"
		return result, nil
	}

	submitCtx, cancel := context.WithTimeout(ctx, p.submitTimeout)
	defer cancel()

	order, err := p.broker.SubmitOrder(submitCtx, ports.OrderRequest{
		InstrumentID: instrumentID,
		Side:         domain.Sell,
		Quantity:     sig.Quantity,
		LimitPrice:   sig.Premium,
		TimeInForce:  p.timeInForce,
	})
	if err != nil {
		// Degraded success: the record carries the failure, the caller
		// still gets an overall success response. A timeout lands here too.
		p.logger.Error(ctx, err, op+": broker submission failed", map[string]interface{}{
			"recordID":   recID,
			"instrument": instrumentID,
		})
		if settleErr := p.settle(ctx, rec, domain.StatusError, err.Error(), ""); settleErr != nil {
			return nil, settleErr
		}
		result.Status = domain.StatusError
		result.BrokerDetail = err.Error()
		return result, nil
	}

	rec.ProcessedAt = p.now().UTC()
	if err := p.settle(ctx, rec, domain.StatusProcessed, "", order.OrderRef); err != nil {
		return nil, err
	}
	p.logger.Info(ctx, op+": order submitted", map[string]interface{}{
		"recordID":   recID,
		"instrument": instrumentID,
		"orderRef":   order.OrderRef,
		"status":     order.Status,
	})
	result.Status = domain.StatusProcessed
	result.OrderRef = order.OrderRef
	result.BrokerDetail = order.Status
	return result, nil
}

// SubmitSignal pushes an already-validated signal back through the full
// pipeline, re-validating on the way in. Implements ports.SignalSubmitter
// for in-process use by the recommendation advisor.
func (p *Pipeline) SubmitSignal(ctx context.Context, sig *domain.TradingSignal) (*ports.SubmissionResult, error) {
	res, err := p.Submit(ctx, signal.Raw(sig))
	if err != nil {
		return nil, err
	}
	return &ports.SubmissionResult{
		RecordID: res.RecordID,
		Status:   res.Status,
		Detail:   res.BrokerDetail,
	}, nil
}

// settle moves the record to its terminal status for this attempt.
// A repository failure here is surfaced to the caller: the record exists
// but may be left in pending, which the audit trail has to tolerate.
func (p *Pipeline) settle(ctx context.Context, rec *domain.SignalRecord, status domain.SignalStatus, errMsg, orderRef string) error {
	rec.Status = status
	if errMsg != "" {
		rec.ErrorMessage = &errMsg
	}
	if orderRef != "" {
		rec.BrokerOrderRef = &orderRef
	}
	if err := p.repo.UpdateStatus(ctx, rec); err != nil {
		p.logger.Error(ctx, err, "failed to update signal record status", map[string]interface{}{
			"recordID": rec.ID,
			"status":   status,
		})
		return fmt.Errorf("update signal record %d to %s: %w", rec.ID, status, err)
	}
	return nil
}
