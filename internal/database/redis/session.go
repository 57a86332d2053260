package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// claimScript sets the claim marker only while the session exists and is
// unclaimed, and returns the session document on success.
// KEYS[1] session, KEYS[2] claim marker, ARGV[1] claim time.
var claimScript = goredis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return false
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 1 then
  ttl = 3600000
end
if not redis.call('SET', KEYS[2], ARGV[1], 'NX', 'PX', ttl) then
  return false
end
return raw
`)

func (s *Store) CreateSession(ctx context.Context, session *domain.RunSession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode run session: %w", err)
	}
	ttl := time.Until(session.ExpiresAt) + SessionRetention
	if ttl <= 0 {
		ttl = SessionRetention
	}

	created, err := s.rdb.SetNX(ctx, runSessionKey(session.Scope, session.Username, session.Ticket), raw, ttl).Result()
	if err != nil {
		return database.StoreError(opCreateSession, err)
	}
	if !created {
		return fmt.Errorf("%w: ticket already issued", domain.ErrInvalidInput)
	}
	return nil
}

func (s *Store) ClaimSession(ctx context.Context, scope, username, ticket string, now time.Time) (*domain.RunSession, error) {
	keys := []string{runSessionKey(scope, username, ticket), claimMarkerKey(scope, username, ticket)}
	raw, err := claimScript.Run(ctx, s.rdb, keys, now.UTC().Format(time.RFC3339Nano)).Text()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, database.StoreError(opClaimSession, err)
	}

	var session domain.RunSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("decode run session: %w", err)
	}
	claimedAt := now
	session.ClaimedAt = &claimedAt
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, scope, username, ticket string) error {
	err := s.rdb.Del(ctx, runSessionKey(scope, username, ticket), claimMarkerKey(scope, username, ticket)).Err()
	return database.StoreError(opDeleteSession, err)
}
