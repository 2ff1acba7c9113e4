package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
	"wheelStrategyBot/internal/signal"
)

// Mock implementations

type mockLogger struct {
	debugMsgs []string
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.debugMsgs = append(m.debugMsgs, msg)
}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.errorMsgs = append(m.errorMsgs, msg)
}

type mockRecordRepo struct {
	records   map[int64]*domain.SignalRecord
	nextID    int64
	createErr error
	updateErr error
	listErr   error
}

func newMockRecordRepo() *mockRecordRepo {
	return &mockRecordRepo{records: make(map[int64]*domain.SignalRecord), nextID: 1}
}

func (m *mockRecordRepo) Create(ctx context.Context, rec *domain.SignalRecord) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	rec.ID = m.nextID
	m.nextID++
	stored := *rec
	m.records[rec.ID] = &stored
	return rec.ID, nil
}

func (m *mockRecordRepo) UpdateStatus(ctx context.Context, rec *domain.SignalRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.records[rec.ID]; !ok {
		return ports.ErrNotFound
	}
	stored := *rec
	m.records[rec.ID] = &stored
	return nil
}

func (m *mockRecordRepo) FindByID(ctx context.Context, id int64) (*domain.SignalRecord, error) {
	return m.records[id], nil
}

func (m *mockRecordRepo) ListRecent(ctx context.Context, limit int) ([]*domain.SignalRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*domain.SignalRecord, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, rec)
	}
	return out, nil
}

type mockBroker struct {
	result   *ports.OrderResult
	err      error
	requests []ports.OrderRequest
}

func (m *mockBroker) SubmitOrder(ctx context.Context, req ports.OrderRequest) (*ports.OrderResult, error) {
	m.requests = append(m.requests, req)
	return m.result, m.err
}

func newTestPipeline(t *testing.T, repo *mockRecordRepo, broker ports.BrokerClient) (*Pipeline, *mockLogger) {
	t.Helper()
	logger := &mockLogger{}
	validator := signal.NewValidatorWithClock(func() time.Time {
		return time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	})
	p, err := NewPipeline(PipelineConfig{
		Logger:        logger,
		Validator:     validator,
		Repo:          repo,
		Broker:        broker,
		TimeInForce:   domain.Day,
		SubmitTimeout: time.Second,
	})
	require.NoError(t, err)
	return p, logger
}

func validRaw() signal.RawSignal {
	return signal.RawSignal{
		Action:  "sell_put",
		Symbol:  "AAPL",
		Strike:  180.0,
		Expiry:  "2024-07-19",
		Premium: 1.50,
	}
}

func TestNewPipeline(t *testing.T) {
	logger := &mockLogger{}
	validator := signal.NewValidator()
	repo := newMockRecordRepo()

	tests := []struct {
		name    string
		cfg     PipelineConfig
		wantErr bool
	}{
		{
			name: "valid without broker",
			cfg:  PipelineConfig{Logger: logger, Validator: validator, Repo: repo},
		},
		{
			name:    "missing repo",
			cfg:     PipelineConfig{Logger: logger, Validator: validator},
			wantErr: true,
		},
		{
			name:    "missing logger",
			cfg:     PipelineConfig{Validator: validator, Repo: repo},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPipeline(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, p)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, p)
			}
		})
	}
}

func TestPipeline_Submit_RejectsBeforePersistence(t *testing.T) {
	repo := newMockRecordRepo()
	p, _ := newTestPipeline(t, repo, nil)

	raw := validRaw()
	raw.Premium = 1000.01

	result, err := p.Submit(context.Background(), raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrInvalidPremium)
	assert.Nil(t, result)
	// Invalid input never pollutes the audit trail.
	assert.Empty(t, repo.records)
}

func TestPipeline_Submit_NoBroker(t *testing.T) {
	repo := newMockRecordRepo()
	p, logger := newTestPipeline(t, repo, nil)

	result, err := p.Submit(context.Background(), validRaw())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, domain.StatusNoBroker, result.Status)
	assert.Equal(t, "AAPL240719P00180000", result.InstrumentID)

	rec := repo.records[result.RecordID]
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusNoBroker, rec.Status)
	require.NotNil(t, rec.ErrorMessage)
	assert.Equal(t, "broker unavailable", *rec.ErrorMessage)
	assert.Nil(t, rec.BrokerOrderRef)
	assert.True(t, rec.ProcessedAt.IsZero())

	assert.Contains(t, logger.infoMsgs, "Submit: no broker configured, simulated order")
}

func TestPipeline_Submit_BrokerSuccess(t *testing.T) {
	repo := newMockRecordRepo()
	broker := &mockBroker{
		result: &ports.OrderResult{
			OrderRef:    "order-123",
			Status:      "accepted",
			SubmittedAt: time.Now(),
		},
	}
	p, _ := newTestPipeline(t, repo, broker)

	result, err := p.Submit(context.Background(), validRaw())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusProcessed, result.Status)
	assert.Equal(t, "order-123", result.OrderRef)

	require.Len(t, broker.requests, 1)
	req := broker.requests[0]
	assert.Equal(t, "AAPL240719P00180000", req.InstrumentID)
	assert.Equal(t, domain.Sell, req.Side)
	assert.Equal(t, 1, req.Quantity)
	assert.Equal(t, 1.50, req.LimitPrice)
	assert.Equal(t, domain.Day, req.TimeInForce)

	rec := repo.records[result.RecordID]
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusProcessed, rec.Status)
	require.NotNil(t, rec.BrokerOrderRef)
	assert.Equal(t, "order-123", *rec.BrokerOrderRef)
	assert.False(t, rec.ProcessedAt.IsZero())
	assert.Nil(t, rec.ErrorMessage)
}

func TestPipeline_Submit_BrokerErrorIsDegradedSuccess(t *testing.T) {
	repo := newMockRecordRepo()
	broker := &mockBroker{err: ports.ErrOrderRejected}
	p, _ := newTestPipeline(t, repo, broker)

	result, err := p.Submit(context.Background(), validRaw())
	// The caller still sees overall success; the failure lives on the record.
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.StatusError, result.Status)
	assert.NotEmpty(t, result.BrokerDetail)
	assert.Empty(t, result.OrderRef)

	rec := repo.records[result.RecordID]
	require.NotNil(t, rec)
	assert.Equal(t, domain.StatusError, rec.Status)
	require.NotNil(t, rec.ErrorMessage)
	assert.Contains(t, *rec.ErrorMessage, ports.ErrOrderRejected.Error())
	assert.True(t, rec.ProcessedAt.IsZero())
}

func TestPipeline_Submit_RepositoryFailures(t *testing.T) {
	t.Run("create failure is caller-visible", func(t *testing.T) {
		repo := newMockRecordRepo()
		repo.createErr = ports.ErrDBConnection
		p, _ := newTestPipeline(t, repo, nil)

		result, err := p.Submit(context.Background(), validRaw())
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrDBConnection)
		assert.Nil(t, result)
	})

	t.Run("settle failure is caller-visible", func(t *testing.T) {
		repo := newMockRecordRepo()
		repo.updateErr = ports.ErrUpdateFailed
		p, _ := newTestPipeline(t, repo, nil)

		result, err := p.Submit(context.Background(), validRaw())
		require.Error(t, err)
		assert.ErrorIs(t, err, ports.ErrUpdateFailed)
		assert.Nil(t, result)
	})
}

func TestPipeline_Submit_DuplicatesProduceIndependentRecords(t *testing.T) {
	repo := newMockRecordRepo()
	p, _ := newTestPipeline(t, repo, nil)

	first, err := p.Submit(context.Background(), validRaw())
	require.NoError(t, err)
	second, err := p.Submit(context.Background(), validRaw())
	require.NoError(t, err)

	assert.NotEqual(t, first.RecordID, second.RecordID)
	assert.Len(t, repo.records, 2)
}

func TestPipeline_SubmitSignal(t *testing.T) {
	repo := newMockRecordRepo()
	p, _ := newTestPipeline(t, repo, nil)

	sig := &domain.TradingSignal{
		Action:   domain.SellCall,
		Symbol:   "AAPL",
		Strike:   190.0,
		Expiry:   time.Date(2024, time.July, 19, 0, 0, 0, 0, time.UTC),
		Premium:  1.75,
		Quantity: 1,
	}

	res, err := p.SubmitSignal(context.Background(), sig)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoBroker, res.Status)

	rec := repo.records[res.RecordID]
	require.NotNil(t, rec)
	assert.Equal(t, domain.SellCall, rec.Action)
}
