// Package database holds connection setup shared by the storage backends.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Pool is what readiness checks need from a backend.
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// NewPool creates a PostgreSQL connection pool and verifies it with a ping.
func NewPool(ctx context.Context, connString string, maxConns int, maxIdle, maxLife time.Duration) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	if maxConns > 0 {
		config.MaxConns = int32(maxConns)
	}
	config.MinConns = min(DefaultMinConnections, config.MaxConns)
	config.MaxConnLifetime = maxLife
	config.MaxConnIdleTime = maxIdle

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgConnectedToDatabase, "max_conns", config.MaxConns)
	return pool, nil
}

// StoreError classifies a backend failure. Deadline errors become
// domain.ErrStoreTimeout, everything else domain.ErrStoreUnavailable.
// The cause stays reachable through errors.Is.
func StoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := domain.ErrStoreUnavailable
	if errors.Is(err, context.DeadlineExceeded) {
		kind = domain.ErrStoreTimeout
	}
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}
