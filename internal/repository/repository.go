// Package repository defines the storage contracts of the meta server.
// Backends live under internal/database.
package repository

import (
	"context"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Progression stores one PlayerProgression per (scope, username).
type Progression interface {
	// GetProgression returns domain.ErrNotFound when the player has no profile yet.
	GetProgression(ctx context.Context, scope, username string) (*domain.PlayerProgression, error)
	SaveProgression(ctx context.Context, scope string, p *domain.PlayerProgression) error
}

// Session stores issued run tickets.
type Session interface {
	CreateSession(ctx context.Context, s *domain.RunSession) error
	// ClaimSession atomically moves an issued session to claimed and returns it.
	// Absent and already claimed sessions both yield domain.ErrRunNotFound,
	// so exactly one of several concurrent claims succeeds.
	ClaimSession(ctx context.Context, scope, username, ticket string, now time.Time) (*domain.RunSession, error)
	DeleteSession(ctx context.Context, scope, username, ticket string) error
}

// Leaderboard stores best scores in sorted boards.
type Leaderboard interface {
	// SubmitBest merges score as max(existing, score) atomically and returns the stored best.
	SubmitBest(ctx context.Context, board domain.BoardKey, username string, score int64) (int64, error)
	// Top returns up to limit entries ordered by score descending.
	Top(ctx context.Context, board domain.BoardKey, limit int) ([]domain.LeaderboardEntry, error)
	// Standing returns nil when username has no entry on the board.
	Standing(ctx context.Context, board domain.BoardKey, username string) (*domain.LeaderboardStanding, error)
	Count(ctx context.Context, board domain.BoardKey) (int64, error)
}

// State stores the free-form legacy save slot.
type State interface {
	// GetState returns domain.ErrStateNotFound when nothing was saved.
	GetState(ctx context.Context, scope, username string) (*domain.StoredState, error)
	SaveState(ctx context.Context, scope string, s *domain.StoredState) error
}

// Store bundles every contract behind one backend.
type Store interface {
	Progression
	Session
	Leaderboard
	State

	Ping(ctx context.Context) error
	Close()
}

// SessionPurger is implemented by backends without native key expiry.
type SessionPurger interface {
	// PurgeExpiredSessions deletes sessions that expired before cutoff and reports how many.
	PurgeExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}
