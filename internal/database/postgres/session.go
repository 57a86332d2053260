package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

const (
	createSessionSQL = `
INSERT INTO run_sessions (scope, username, ticket, session, expires_at)
VALUES ($1, $2, $3, $4, $5)`

	// The claimed_at guard turns the update into a compare-and-swap.
	claimSessionSQL = `
UPDATE run_sessions SET claimed_at = $4
WHERE scope = $1 AND username = $2 AND ticket = $3 AND claimed_at IS NULL
RETURNING session`

	deleteSessionSQL = `DELETE FROM run_sessions WHERE scope = $1 AND username = $2 AND ticket = $3`

	purgeSessionsSQL = `DELETE FROM run_sessions WHERE expires_at < $1`
)

func (s *Store) CreateSession(ctx context.Context, session *domain.RunSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode run session: %w", err)
	}
	_, err = s.db.Exec(ctx, createSessionSQL, session.Scope, session.Username, session.Ticket, raw, session.ExpiresAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: ticket already issued", domain.ErrInvalidInput)
	}
	return database.StoreError(opCreateSession, err)
}

func (s *Store) ClaimSession(ctx context.Context, scope, username, ticket string, now time.Time) (*domain.RunSession, error) {
	var raw []byte
	err := s.db.QueryRow(ctx, claimSessionSQL, scope, username, ticket, now).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, database.StoreError(opClaimSession, err)
	}

	var session domain.RunSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode run session: %w", err)
	}
	claimedAt := now
	session.ClaimedAt = &claimedAt
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, scope, username, ticket string) error {
	_, err := s.db.Exec(ctx, deleteSessionSQL, scope, username, ticket)
	return database.StoreError(opDeleteSession, err)
}

// PurgeExpiredSessions removes sessions whose expiry is before cutoff.
func (s *Store) PurgeExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, purgeSessionsSQL, cutoff)
	if err != nil {
		return 0, database.StoreError(opPurgeSessions, err)
	}
	return tag.RowsAffected(), nil
}
