// Package postgres implements repository.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/RiftRunner_Go/internal/database"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

var (
	_ repository.Store         = (*Store)(nil)
	_ repository.SessionPurger = (*Store)(nil)
)

// Store runs every query on a shared connection pool.
// Run database.Migrate on the pool before first use.
type Store struct {
	db *pgxpool.Pool
}

// NewStore wraps an open pool. The store owns the pool from here on.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return database.StoreError(opPing, s.db.Ping(ctx))
}

func (s *Store) Close() {
	s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == PgErrorCodeUniqueViolation
}
