package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

const (
	getStateSQL = `SELECT state FROM stored_state WHERE scope = $1 AND username = $2`

	saveStateSQL = `
INSERT INTO stored_state (scope, username, state, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (scope, username)
DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
)

func (s *Store) GetState(ctx context.Context, scope, username string) (*domain.StoredState, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, getStateSQL, scope, username).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, database.StoreError(opGetState, err)
	}

	var state domain.StoredState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode stored state: %w", err)
	}
	return &state, nil
}

func (s *Store) SaveState(ctx context.Context, scope string, state *domain.StoredState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode stored state: %w", err)
	}
	_, err = s.db.Exec(ctx, saveStateSQL, scope, state.Username, raw, state.UpdatedAt)
	return database.StoreError(opSaveState, err)
}
