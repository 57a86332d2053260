package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/progression"
)

const (
	getProgressionSQL = `SELECT document FROM player_progression WHERE scope = $1 AND username = $2`

	saveProgressionSQL = `
INSERT INTO player_progression (scope, username, document, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (scope, username)
DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
)

// GetProgression loads and migrates the stored document.
func (s *Store) GetProgression(ctx context.Context, scope, username string) (*domain.PlayerProgression, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, getProgressionSQL, scope, username).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, database.StoreError(opGetProgression, err)
	}
	return progression.Decode(raw, username, time.Now().UTC())
}

// SaveProgression replaces the whole document.
func (s *Store) SaveProgression(ctx context.Context, scope string, p *domain.PlayerProgression) error {
	raw, err := progression.Encode(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, saveProgressionSQL, scope, p.Username, raw, p.UpdatedAt)
	return database.StoreError(opSaveProgression, err)
}
