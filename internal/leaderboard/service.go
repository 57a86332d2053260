// Package leaderboard serves ranked views of the global and challenge boards.
package leaderboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/reward"
	"github.com/osse101/RiftRunner_Go/internal/repository"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

// Service reads boards and accepts direct score submissions.
type Service interface {
	// Snapshot reads one board. The caller's standing is omitted for anonymous users.
	Snapshot(ctx context.Context, board domain.BoardKey, username string, limit int) (*domain.LeaderboardSnapshot, error)
	GetLeaderboard(ctx context.Context, id identity.Identity, limit int) (*domain.LeaderboardSnapshot, error)
	// GetChallengeLeaderboard reads the board of the mode's current challenge cycle.
	GetChallengeLeaderboard(ctx context.Context, id identity.Identity, mode domain.Mode, limit int) (*domain.LeaderboardSnapshot, error)
	SubmitScore(ctx context.Context, id identity.Identity, score float64) (*domain.ScoreSubmission, error)
}

type service struct {
	boards       repository.Leaderboard
	states       state.Service
	clock        cycle.Clock
	storeTimeout time.Duration
}

// NewService creates the leaderboard service.
func NewService(boards repository.Leaderboard, states state.Service, clock cycle.Clock, storeTimeout time.Duration) Service {
	return &service{boards: boards, states: states, clock: clock, storeTimeout: storeTimeout}
}

// ClampLimit bounds limit to [1, domain.MaxLeaderboardLimit].
func ClampLimit(limit int) int {
	return max(1, min(limit, domain.MaxLeaderboardLimit))
}

func (s *service) Snapshot(ctx context.Context, board domain.BoardKey, username string, limit int) (*domain.LeaderboardSnapshot, error) {
	limit = ClampLimit(limit)

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	snap := &domain.LeaderboardSnapshot{GeneratedAt: s.clock.Now()}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		top, err := s.boards.Top(gctx, board, limit)
		snap.Top = top
		return err
	})
	g.Go(func() error {
		total, err := s.boards.Count(gctx, board)
		snap.TotalPlayers = total
		return err
	})
	if username != "" && username != identity.Anonymous {
		g.Go(func() error {
			me, err := s.boards.Standing(gctx, board, username)
			snap.Me = me
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if snap.Top == nil {
		snap.Top = []domain.LeaderboardEntry{}
	}
	return snap, nil
}

func (s *service) GetLeaderboard(ctx context.Context, id identity.Identity, limit int) (*domain.LeaderboardSnapshot, error) {
	return s.Snapshot(ctx, domain.GlobalBoard(id.Scope), id.Username, limit)
}

func (s *service) GetChallengeLeaderboard(ctx context.Context, id identity.Identity, mode domain.Mode, limit int) (*domain.LeaderboardSnapshot, error) {
	if !mode.HasChallenge() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNoChallengeBoard)
	}
	key, err := challenge.CycleKey(mode, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return s.Snapshot(ctx, domain.ChallengeBoard(id.Scope, mode, key), id.Username, limit)
}

func (s *service) SubmitScore(ctx context.Context, id identity.Identity, score float64) (*domain.ScoreSubmission, error) {
	if err := id.RequireUser(); err != nil {
		return nil, err
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, domain.ErrMsgScoreNotFinite)
	}

	best, err := s.submit(ctx, domain.GlobalBoard(id.Scope), id.Username, reward.ClampScore(score))
	if err != nil {
		return nil, err
	}
	if err := s.states.RecordBestScore(ctx, id, best); err != nil {
		return nil, err
	}
	return &domain.ScoreSubmission{
		Username:  id.Username,
		Score:     best,
		UpdatedAt: s.clock.Now(),
	}, nil
}

func (s *service) submit(ctx context.Context, board domain.BoardKey, username string, score int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.boards.SubmitBest(ctx, board, username, score)
}
