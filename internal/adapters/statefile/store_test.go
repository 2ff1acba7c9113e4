package statefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wheelStrategyBot/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(Config{
		Path:   filepath.Join(t.TempDir(), "bot_state.json"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)
	return store
}

func TestStore_Load_MissingFileStartsInCash(t *testing.T) {
	store := setupStore(t)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseCash, state.Phase)
	assert.Equal(t, 0, state.SharesHeld)
	assert.Nil(t, state.LastAction)
}

func TestStore_SaveAndLoadRoundTrip(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	state := &domain.WheelState{
		Phase:      domain.PhaseWaitingAssignment,
		SharesHeld: 0,
		LastAction: &domain.TradingSignal{
			Action:   domain.SellPut,
			Symbol:   "AAPL",
			Strike:   180.0,
			Expiry:   time.Date(2024, time.July, 19, 0, 0, 0, 0, time.UTC),
			Premium:  1.50,
			Quantity: 1,
		},
	}
	require.NoError(t, store.Save(ctx, state))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseWaitingAssignment, loaded.Phase)
	require.NotNil(t, loaded.LastAction)
	assert.Equal(t, domain.SellPut, loaded.LastAction.Action)
	assert.Equal(t, "2024-07-19", loaded.LastAction.ExpiryString())
}

func TestStore_SaveReplacesPreviousSnapshot(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.WheelState{Phase: domain.PhaseWaitingAssignment}))
	require.NoError(t, store.Save(ctx, &domain.WheelState{Phase: domain.PhaseAssigned, SharesHeld: 100}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAssigned, loaded.Phase)
	assert.Equal(t, 100, loaded.SharesHeld)
}

func TestStore_Load_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot_state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store, err := NewStore(Config{Path: path, Logger: &mockLogger{}})
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestStore_Load_LegacyStateShape(t *testing.T) {
	// The original state file layout, with no last action recorded.
	path := filepath.Join(t.TempDir(), "bot_state.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"state": "assigned", "shares_held": 100, "last_action": null}`), 0644))

	store, err := NewStore(Config{Path: path, Logger: &mockLogger{}})
	require.NoError(t, err)

	state, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAssigned, state.Phase)
	assert.Equal(t, 100, state.SharesHeld)
	assert.Nil(t, state.LastAction)
}
