// Package statefile persists the wheel state as a small JSON file, the
// single named slot the recommendation loop reads and writes.
package statefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"wheelStrategyBot/internal/domain"
	"wheelStrategyBot/internal/ports"
)

// Store implements ports.WheelStateStore over a JSON file on disk.
type Store struct {
	path   string
	logger ports.Logger
}

// Config holds configuration for the state file store.
type Config struct {
	Path   string
	Logger ports.Logger
}

// NewStore creates a wheel state store backed by the given file path.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for state file store")
	}
	path := cfg.Path
	if path == "" {
		path = "./bot_state.json"
	}
	return &Store{path: path, logger: cfg.Logger}, nil
}

// Load reads the persisted wheel state. A missing file is not an error:
// the bot starts in cash with no shares.
func (s *Store) Load(ctx context.Context) (*domain.WheelState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info(ctx, "No wheel state file found, starting in cash", map[string]interface{}{"path": s.path})
			return domain.NewWheelState(), nil
		}
		return nil, fmt.Errorf("failed to read wheel state file '%s': %w", s.path, err)
	}

	state := &domain.WheelState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("failed to parse wheel state file '%s': %w", s.path, err)
	}
	if state.Phase == "" {
		state.Phase = domain.PhaseCash
	}
	return state, nil
}

// Save writes the wheel state atomically: to a temp file first, then a
// rename over the previous snapshot.
func (s *Store) Save(ctx context.Context, state *domain.WheelState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wheel state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory for '%s': %w", s.path, err)
	}
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write wheel state file '%s': %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace wheel state file '%s': %w", s.path, err)
	}
	s.logger.Debug(ctx, "Wheel state saved", map[string]interface{}{
		"path":       s.path,
		"phase":      state.Phase,
		"sharesHeld": state.SharesHeld,
	})
	return nil
}
