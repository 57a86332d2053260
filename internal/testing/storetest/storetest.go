// Package storetest is a conformance suite every repository.Store backend must pass.
package storetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/repository"
)

// Factory returns a store with no data visible to other invocations.
// Backends sharing one server should namespace by scope; every test here uses
// a fresh scope.
type Factory func(t *testing.T) repository.Store

var scopeSeq atomic.Int64

// NewScope returns a scope unique within the test process.
func NewScope(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("t%d-%d", time.Now().UnixNano(), scopeSeq.Add(1))
}

// Run executes the whole suite against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("Progression", func(t *testing.T) { testProgression(t, newStore(t)) })
	t.Run("SessionClaimOnce", func(t *testing.T) { testSessionClaimOnce(t, newStore(t)) })
	t.Run("SessionConcurrentClaim", func(t *testing.T) { testSessionConcurrentClaim(t, newStore(t)) })
	t.Run("LeaderboardBestScore", func(t *testing.T) { testLeaderboardBest(t, newStore(t)) })
	t.Run("LeaderboardOrdering", func(t *testing.T) { testLeaderboardOrdering(t, newStore(t)) })
	t.Run("State", func(t *testing.T) { testState(t, newStore(t)) })
}

func testProgression(t *testing.T, store repository.Store) {
	ctx := context.Background()
	scope := NewScope(t)

	_, err := store.GetProgression(ctx, scope, "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p := progression.NewProfile("alice", now)
	p.Level = 6
	p.XP = 42
	p.Currency = 310
	p.LifetimeRuns = 7
	p.LifetimeBestScore = 51234
	p.ChallengeClaims["daily:2025-03-10"] = true
	progression.Normalize(p)
	require.NoError(t, store.SaveProgression(ctx, scope, p))

	got, err := store.GetProgression(ctx, scope, "alice")
	require.NoError(t, err)
	assert.Equal(t, 6, got.Level)
	assert.Equal(t, 42, got.XP)
	assert.Equal(t, 310, got.Currency)
	assert.Equal(t, int64(51234), got.LifetimeBestScore)
	assert.True(t, got.ChallengeClaims["daily:2025-03-10"])
	assert.ElementsMatch(t, p.UnlockedPerkIDs, got.UnlockedPerkIDs)

	_, err = store.GetProgression(ctx, NewScope(t), "alice")
	assert.ErrorIs(t, err, domain.ErrNotFound, "scopes are isolated")
}

func newSession(scope, username, ticket string, now time.Time) *domain.RunSession {
	return &domain.RunSession{
		Ticket:            ticket,
		Scope:             scope,
		Username:          username,
		Mode:              domain.ModeDaily,
		Seed:              1234,
		OfferedMutatorIDs: []string{"a", "b", "c"},
		DefaultMutatorIDs: []string{"a", "b"},
		SelectedPerkIDs:   []string{"p"},
		ChallengeCycleKey: "2025-03-10",
		StartedAt:         now,
		ExpiresAt:         now.Add(domain.RunTTL),
	}
}

func testSessionClaimOnce(t *testing.T, store repository.Store) {
	ctx := context.Background()
	scope := NewScope(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	_, err := store.ClaimSession(ctx, scope, "bob", "missing", now)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	require.NoError(t, store.CreateSession(ctx, newSession(scope, "bob", "t1", now)))

	_, err = store.ClaimSession(ctx, scope, "carol", "t1", now)
	assert.ErrorIs(t, err, domain.ErrRunNotFound, "tickets are bound to their owner")

	claimed, err := store.ClaimSession(ctx, scope, "bob", "t1", now)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeDaily, claimed.Mode)
	assert.Equal(t, uint32(1234), claimed.Seed)
	assert.Equal(t, []string{"a", "b", "c"}, claimed.OfferedMutatorIDs)
	assert.Equal(t, "2025-03-10", claimed.ChallengeCycleKey)
	require.NotNil(t, claimed.ClaimedAt)

	_, err = store.ClaimSession(ctx, scope, "bob", "t1", now)
	assert.ErrorIs(t, err, domain.ErrRunNotFound, "second claim must fail")

	require.NoError(t, store.DeleteSession(ctx, scope, "bob", "t1"))
	require.NoError(t, store.DeleteSession(ctx, scope, "bob", "t1"), "delete is idempotent")
	_, err = store.ClaimSession(ctx, scope, "bob", "t1", now)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func testSessionConcurrentClaim(t *testing.T, store repository.Store) {
	ctx := context.Background()
	scope := NewScope(t)
	now := time.Now().UTC()
	require.NoError(t, store.CreateSession(ctx, newSession(scope, "dave", "race", now)))

	const workers = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := store.ClaimSession(ctx, scope, "dave", "race", now); err == nil {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one claim may succeed")
}

func testLeaderboardBest(t *testing.T, store repository.Store) {
	ctx := context.Background()
	board := domain.GlobalBoard(NewScope(t))

	best, err := store.SubmitBest(ctx, board, "erin", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), best)

	best, err = store.SubmitBest(ctx, board, "erin", 300)
	require.NoError(t, err)
	assert.Equal(t, int64(500), best, "lower score never replaces best")

	best, err = store.SubmitBest(ctx, board, "erin", 900)
	require.NoError(t, err)
	assert.Equal(t, int64(900), best)

	standing, err := store.Standing(ctx, board, "erin")
	require.NoError(t, err)
	require.NotNil(t, standing)
	assert.Equal(t, 1, standing.Rank)
	assert.Equal(t, int64(900), standing.Score)

	standing, err = store.Standing(ctx, board, "nobody")
	require.NoError(t, err)
	assert.Nil(t, standing)
}

func testLeaderboardOrdering(t *testing.T, store repository.Store) {
	ctx := context.Background()
	board := domain.ChallengeBoard(NewScope(t), domain.ModeWeekly, "2025-W11")

	scores := map[string]int64{"amy": 100, "ben": 400, "cat": 250, "dan": 400, "eve": 50}
	for user, score := range scores {
		_, err := store.SubmitBest(ctx, board, user, score)
		require.NoError(t, err)
	}

	total, err := store.Count(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	top, err := store.Top(ctx, board, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []domain.LeaderboardEntry{
		{Rank: 1, Username: "dan", Score: 400},
		{Rank: 2, Username: "ben", Score: 400},
		{Rank: 3, Username: "cat", Score: 250},
	}, top)

	standing, err := store.Standing(ctx, board, "eve")
	require.NoError(t, err)
	require.NotNil(t, standing)
	assert.Equal(t, 5, standing.Rank)

	all, err := store.Top(ctx, board, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	empty, err := store.Top(ctx, domain.GlobalBoard(NewScope(t)), 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func testState(t *testing.T, store repository.Store) {
	ctx := context.Background()
	scope := NewScope(t)

	_, err := store.GetState(ctx, scope, "fay")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	level := 4
	best := int64(777)
	state := &domain.StoredState{
		Username:  "fay",
		Level:     &level,
		BestScore: &best,
		Data:      json.RawMessage(`{"checkpoint":3}`),
		UpdatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.SaveState(ctx, scope, state))

	got, err := store.GetState(ctx, scope, "fay")
	require.NoError(t, err)
	require.NotNil(t, got.Level)
	assert.Equal(t, 4, *got.Level)
	require.NotNil(t, got.BestScore)
	assert.Equal(t, int64(777), *got.BestScore)
	assert.JSONEq(t, `{"checkpoint":3}`, string(got.Data))
	assert.True(t, state.UpdatedAt.Equal(got.UpdatedAt))
}
