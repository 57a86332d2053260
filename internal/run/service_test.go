package run

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/database/memory"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/event"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/reward"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) types() []event.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]event.Type, 0, len(p.events))
	for _, evt := range p.events {
		out = append(out, evt.Type)
	}
	return out
}

// failingStore fails progression writes on demand.
type failingStore struct {
	*memory.Store
	failSave error
}

func (s *failingStore) SaveProgression(ctx context.Context, scope string, p *domain.PlayerProgression) error {
	if s.failSave != nil {
		return s.failSave
	}
	return s.Store.SaveProgression(ctx, scope, p)
}

type fixture struct {
	svc   Service
	store *failingStore
	clock *cycle.SimulatedClock
	pub   *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := &failingStore{Store: memory.New()}
	clock := cycle.NewSimulatedClock(time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC))
	pub := &recordingPublisher{}
	states := state.NewService(store, clock, time.Second)
	boards := leaderboard.NewService(store, states, clock, time.Second)
	svc := NewService(store, states, boards, challenge.NewDeriver(16, time.Hour), pub, clock, time.Second)
	return &fixture{svc: svc, store: store, clock: clock, pub: pub}
}

func (f *fixture) start(t *testing.T, id identity.Identity, mode domain.Mode) *domain.RunStart {
	t.Helper()
	start, err := f.svc.StartRun(context.Background(), id, StartRequest{Mode: mode})
	require.NoError(t, err)
	return start
}

func TestStartRun_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.StartRun(ctx, identity.New("p", ""), StartRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.StartRun(ctx, identity.New("p", "alice"), StartRequest{Mode: "hardcore"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.pub.types())
}

func TestStartRun_Normal(t *testing.T) {
	f := newFixture(t)
	now := f.clock.Now()

	start := f.start(t, identity.New("p", "alice"), domain.ModeNormal)

	assert.NotEmpty(t, start.Ticket)
	assert.Equal(t, domain.ModeNormal, start.Mode)
	assert.Nil(t, start.Challenge)
	assert.Equal(t, now.Add(domain.RunTTL), start.ExpiresAt)
	assert.Equal(t, Seed("p", "alice", domain.ModeNormal, "", now), start.Seed)

	require.Len(t, start.OfferedMutatorIDs, domain.OfferedMutatorCount)
	assert.ElementsMatch(t, start.OfferedMutatorIDs, uniq(start.OfferedMutatorIDs))
	for _, id := range start.OfferedMutatorIDs {
		_, ok := catalog.Mutator(id)
		assert.True(t, ok, id)
	}
	assert.Equal(t, start.OfferedMutatorIDs[:domain.DefaultMutatorCount], start.DefaultMutatorIDs)

	assert.Equal(t, "alice", start.Profile.Username)
	assert.Equal(t, []event.Type{event.RunStarted}, f.pub.types())

	// the profile is created on first start
	_, err := f.store.GetProgression(context.Background(), "p", "alice")
	assert.NoError(t, err)
}

func TestStartRun_DoesNotRewriteStoredProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	first := f.start(t, alice, domain.ModeNormal)
	_, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: first.Ticket, Score: 10000})
	require.NoError(t, err)

	// progression writes fail, yet starting against a stored profile succeeds
	f.store.failSave = domain.ErrStoreUnavailable
	_, err = f.svc.StartRun(ctx, alice, StartRequest{Mode: domain.ModeNormal})
	require.NoError(t, err)
	f.store.failSave = nil

	p, err := f.store.GetProgression(ctx, "p", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LifetimeRuns)
}

func TestStartRun_DailyCarriesChallenge(t *testing.T) {
	f := newFixture(t)

	start := f.start(t, identity.New("p", "alice"), domain.ModeDaily)

	require.NotNil(t, start.Challenge)
	assert.Equal(t, cycle.DayKey(f.clock.Now()), start.Challenge.Key)
	assert.False(t, start.Challenge.Completed)
	assert.Equal(t, Seed("p", "alice", domain.ModeDaily, start.Challenge.ClaimKey(), f.clock.Now()), start.Seed)
}

func TestStartRun_TicketsAreUnique(t *testing.T) {
	f := newFixture(t)
	alice := identity.New("p", "alice")

	a := f.start(t, alice, domain.ModeNormal)
	b := f.start(t, alice, domain.ModeNormal)
	assert.NotEqual(t, a.Ticket, b.Ticket)
}

func TestCompleteRun_ValidationBeforeStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)
	negative := -1.0
	nan := math.NaN()

	tests := []struct {
		name string
		id   identity.Identity
		req  domain.RunCompletion
		want error
	}{
		{"anonymous", identity.New("p", ""), domain.RunCompletion{Ticket: start.Ticket, Score: 10}, domain.ErrUnauthorized},
		{"missing ticket", alice, domain.RunCompletion{Ticket: "  ", Score: 10}, domain.ErrInvalidInput},
		{"nan score", alice, domain.RunCompletion{Ticket: start.Ticket, Score: math.NaN()}, domain.ErrInvalidInput},
		{"infinite score", alice, domain.RunCompletion{Ticket: start.Ticket, Score: math.Inf(1)}, domain.ErrInvalidInput},
		{"negative survived", alice, domain.RunCompletion{Ticket: start.Ticket, Score: 10, SurvivedSeconds: &negative}, domain.ErrInvalidInput},
		{"nan survived", alice, domain.RunCompletion{Ticket: start.Ticket, Score: 10, SurvivedSeconds: &nan}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CompleteRun(ctx, tt.id, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// the ticket survived every rejected attempt
	_, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 10})
	assert.NoError(t, err)
}

func TestCompleteRun_Rewards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	result, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 1000.9})
	require.NoError(t, err)

	want := reward.Compute(reward.Input{
		RawScore: 1000.9,
		Mode:     domain.ModeNormal,
		Mutators: reward.ResolveMutators(start.DefaultMutatorIDs),
		Streak:   1,
	})
	assert.Equal(t, start.DefaultMutatorIDs, result.RunSummary.MutatorIDs, "defaults apply when none requested")
	assert.Equal(t, want.AdjustedScore, result.Score)
	assert.Equal(t, want.AdjustedScore, result.BestScore)
	assert.Equal(t, want.XPGained, result.Reward.XPGained)
	assert.Equal(t, want.CurrencyGained, result.Reward.CurrencyGained)
	assert.InDelta(t, want.ScoreMultiplier(), result.Reward.ScoreMultiplier, 1e-9)
	assert.Zero(t, result.Reward.ChallengeBonus)
	assert.Empty(t, result.RunSummary.CompletedChallenges)

	assert.Equal(t, 1, result.Profile.LifetimeRuns)
	assert.Equal(t, 1, result.Profile.Streak)
	assert.Equal(t, want.CurrencyGained+progression.LevelUpCurrencyGift*result.Reward.LevelUps, result.Profile.Currency)
	assert.Equal(t, want.AdjustedScore, result.Profile.LifetimeBestScore)

	require.Len(t, result.Leaderboard.Top, 1)
	assert.Equal(t, "alice", result.Leaderboard.Top[0].Username)
	require.NotNil(t, result.Leaderboard.Me)
	assert.Equal(t, 1, result.Leaderboard.Me.Rank)
	assert.Len(t, result.Quests, len(catalog.Quests()))

	saved, err := f.store.GetState(ctx, "p", "alice")
	require.NoError(t, err)
	require.NotNil(t, saved.BestScore)
	assert.Equal(t, want.AdjustedScore, *saved.BestScore)

	assert.Contains(t, f.pub.types(), event.RunCompleted)
}

func TestCompleteRun_RequestedMutatorsFilteredToOffered(t *testing.T) {
	f := newFixture(t)
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	offered := start.OfferedMutatorIDs[2]
	result, err := f.svc.CompleteRun(context.Background(), alice, domain.RunCompletion{
		Ticket:     start.Ticket,
		Score:      500,
		MutatorIDs: []string{"not_a_mutator", offered, offered},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{offered}, result.RunSummary.MutatorIDs)
}

func TestCompleteRun_TicketIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	_, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	require.NoError(t, err)

	_, err = f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, event.RunRejected, f.pub.types()[len(f.pub.types())-1])

	p, err := f.store.GetProgression(ctx, "p", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, p.LifetimeRuns)
}

func TestCompleteRun_TicketBoundToOwner(t *testing.T) {
	f := newFixture(t)
	start := f.start(t, identity.New("p", "alice"), domain.ModeNormal)

	_, err := f.svc.CompleteRun(context.Background(), identity.New("p", "mallory"), domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)

	_, err = f.svc.CompleteRun(context.Background(), identity.New("other", "alice"), domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
}

func TestCompleteRun_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	f.clock.Advance(domain.RunTTL + time.Second)

	_, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrRunExpired)

	_, err = f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrRunNotFound, "expired tickets are not retryable")

	rejected := 0
	for _, typ := range f.pub.types() {
		if typ == event.RunRejected {
			rejected++
		}
	}
	assert.Equal(t, 2, rejected)
}

func TestCompleteRun_AtExpiryBoundary(t *testing.T) {
	f := newFixture(t)
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	f.clock.Advance(domain.RunTTL)

	_, err := f.svc.CompleteRun(context.Background(), alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.NoError(t, err)
}

func TestCompleteRun_DailyChallengeClaimedOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	first := f.start(t, alice, domain.ModeDaily)
	require.NotNil(t, first.Challenge)
	claimKey := first.Challenge.ClaimKey()

	result, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: first.Ticket, Score: 500_000})
	require.NoError(t, err)
	assert.Equal(t, first.Challenge.RewardBonus, result.Reward.ChallengeBonus)
	assert.Contains(t, result.RunSummary.CompletedChallenges, claimKey)
	assert.Contains(t, f.pub.types(), event.ChallengeCompleted)

	second := f.start(t, alice, domain.ModeDaily)
	require.NotNil(t, second.Challenge)
	assert.True(t, second.Challenge.Completed)

	result, err = f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: second.Ticket, Score: 500_000})
	require.NoError(t, err)
	assert.Zero(t, result.Reward.ChallengeBonus)
	assert.NotContains(t, result.RunSummary.CompletedChallenges, claimKey)

	board := domain.ChallengeBoard("p", domain.ModeDaily, first.Challenge.Key)
	count, err := f.store.Count(ctx, board)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteRun_ChallengeJudgedByStartCycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	f.clock.Set(time.Date(2025, 3, 12, 23, 55, 0, 0, time.UTC))
	start := f.start(t, alice, domain.ModeDaily)
	f.clock.Advance(10 * time.Minute)

	result, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 500_000})
	require.NoError(t, err)
	assert.Contains(t, result.RunSummary.CompletedChallenges, domain.ChallengeClaimKey(domain.ModeDaily, "2025-03-12"))

	p, err := f.store.GetProgression(ctx, "p", "alice")
	require.NoError(t, err)
	assert.True(t, p.ChallengeClaims["daily:2025-03-12"])
	assert.False(t, p.ChallengeClaims["daily:2025-03-13"])
}

func TestCompleteRun_QuestClaimedOnThirdRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	var last *domain.RunResult
	for range 3 {
		start := f.start(t, alice, domain.ModeNormal)
		var err error
		last, err = f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 10})
		require.NoError(t, err)
	}
	assert.Contains(t, last.RunSummary.CompletedChallenges, catalog.QuestDailyRuns)
	assert.Contains(t, f.pub.types(), event.QuestCompleted)

	for _, q := range last.Quests {
		if q.ID == catalog.QuestDailyRuns {
			assert.True(t, q.Completed)
			assert.False(t, q.Claimable, "claimed quests are no longer claimable")
		}
	}
}

func TestCompleteRun_BestScoreKeepsMaximum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	start := f.start(t, alice, domain.ModeNormal)
	high, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 5000})
	require.NoError(t, err)

	start = f.start(t, alice, domain.ModeNormal)
	low, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 10})
	require.NoError(t, err)

	assert.Less(t, low.Score, high.Score)
	assert.Equal(t, high.Score, low.BestScore)
	assert.Equal(t, high.Score, low.Profile.LifetimeBestScore)
}

func TestCompleteRun_PersistFailureKeepsTicketConsumed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	f.store.failSave = domain.ErrStoreUnavailable
	_, err := f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	f.store.failSave = nil
	_, err = f.svc.CompleteRun(ctx, alice, domain.RunCompletion{Ticket: start.Ticket, Score: 100})
	assert.True(t, errors.Is(err, domain.ErrRunNotFound), "a consumed ticket never pays out twice")
}

func TestCompleteRun_LevelUpEvent(t *testing.T) {
	f := newFixture(t)
	alice := identity.New("p", "alice")
	start := f.start(t, alice, domain.ModeNormal)

	result, err := f.svc.CompleteRun(context.Background(), alice, domain.RunCompletion{Ticket: start.Ticket, Score: 900_000})
	require.NoError(t, err)
	require.Positive(t, result.Reward.LevelUps)
	assert.Contains(t, f.pub.types(), event.LevelUp)
}

func uniq(ids []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
