// Package redis implements repository.Store on Redis. Leaderboards are sorted
// sets, everything else is a JSON string value.
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
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Options configures the client connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Store is a repository.Store backed by a single Redis client.
type Store struct {
	rdb *goredis.Client
}

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		return nil, errors.New(ErrMsgMissingAddr)
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = DefaultDialTimeout
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewFromClient(rdb), nil
}

// NewFromClient wraps an existing client. The store owns it from here on.
func NewFromClient(rdb *goredis.Client) *Store {
	return &Store{rdb: rdb}
}

func metaKey(scope, username string) string {
	return "meta:" + scope + ":" + username
}

func stateKey(scope, username string) string {
	return "state:" + scope + ":" + username
}

func runSessionKey(scope, username, ticket string) string {
	return "run:" + scope + ":" + username + ":" + ticket
}

func claimMarkerKey(scope, username, ticket string) string {
	return runSessionKey(scope, username, ticket) + ":claimed"
}

func (s *Store) Ping(ctx context.Context) error {
	return database.StoreError(opPing, s.rdb.Ping(ctx).Err())
}

func (s *Store) Close() {
	_ = s.rdb.Close()
}

func (s *Store) GetProgression(ctx context.Context, scope, username string) (*domain.PlayerProgression, error) {
	raw, err := s.rdb.Get(ctx, metaKey(scope, username)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, database.StoreError(opGetProgression, err)
	}
	return progression.Decode(raw, username, time.Now().UTC())
}

func (s *Store) SaveProgression(ctx context.Context, scope string, p *domain.PlayerProgression) error {
	raw, err := progression.Encode(p)
	if err != nil {
		return err
	}
	return database.StoreError(opSaveProgression, s.rdb.Set(ctx, metaKey(scope, p.Username), raw, 0).Err())
}

func (s *Store) GetState(ctx context.Context, scope, username string) (*domain.StoredState, error) {
	raw, err := s.rdb.Get(ctx, stateKey(scope, username)).Bytes()
	if errors.Is(err, goredis.Nil) {
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
	return database.StoreError(opSaveState, s.rdb.Set(ctx, stateKey(scope, state.Username), raw, 0).Err())
}
