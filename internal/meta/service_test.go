package meta

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/challenge"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/database/memory"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/identity"
	"github.com/osse101/RiftRunner_Go/internal/leaderboard"
	"github.com/osse101/RiftRunner_Go/internal/progression"
	"github.com/osse101/RiftRunner_Go/internal/state"
)

var testNow = time.Date(2025, 3, 12, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *memory.Store, *cycle.SimulatedClock) {
	t.Helper()
	store := memory.New()
	clock := cycle.NewSimulatedClock(testNow)
	states := state.NewService(store, clock, time.Second)
	boards := leaderboard.NewService(store, states, clock, time.Second)
	return NewService(store, boards, challenge.NewDeriver(8, time.Hour), clock, time.Second), store, clock
}

func TestGetMeta_AnonymousIsReadOnly(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	snap, err := svc.GetMeta(ctx, identity.New("p", ""), 10)
	require.NoError(t, err)

	assert.Equal(t, identity.Anonymous, snap.Profile.Username)
	assert.Equal(t, domain.MinLevel, snap.Profile.Level)
	assert.Empty(t, snap.Quests)
	assert.Len(t, snap.ActiveChallenges, 2)
	assert.Len(t, snap.Catalog.Perks, len(catalog.Perks()))
	assert.Nil(t, snap.Leaderboard.Me)
	assert.NotNil(t, snap.Leaderboard.Top)

	_, err = store.GetProgression(ctx, "p", identity.Anonymous)
	assert.ErrorIs(t, err, domain.ErrNotFound, "anonymous reads never persist a profile")
}

func TestGetMeta_CreatesAndRollsQuests(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	p := progression.NewProfile("alice", testNow.AddDate(0, 0, -1))
	p.QuestProgress[catalog.QuestDailyRuns] = domain.QuestProgress{
		CycleKey: cycle.DayKey(testNow.AddDate(0, 0, -1)),
		Progress: 3,
		Claimed:  true,
	}
	p.ChallengeClaims[domain.ChallengeClaimKey(domain.ModeDaily, cycle.DayKey(testNow))] = true
	require.NoError(t, store.SaveProgression(ctx, "p", p))

	snap, err := svc.GetMeta(ctx, alice, 10)
	require.NoError(t, err)

	require.Len(t, snap.Quests, len(catalog.Quests()))
	for _, q := range snap.Quests {
		assert.Zero(t, q.Progress, q.ID)
		assert.False(t, q.Completed, q.ID)
	}

	require.Len(t, snap.ActiveChallenges, 2)
	assert.Equal(t, domain.ModeDaily, snap.ActiveChallenges[0].Mode)
	assert.True(t, snap.ActiveChallenges[0].Completed)
	assert.Equal(t, domain.ModeWeekly, snap.ActiveChallenges[1].Mode)
	assert.False(t, snap.ActiveChallenges[1].Completed)
	assert.Equal(t, clock.Now(), snap.GeneratedAt)

	saved, err := store.GetProgression(ctx, "p", "alice")
	require.NoError(t, err)
	assert.Equal(t, cycle.DayKey(testNow), saved.QuestProgress[catalog.QuestDailyRuns].CycleKey)
}

func TestGetMeta_LeaderboardStanding(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	_, err := store.SubmitBest(ctx, domain.GlobalBoard("p"), "bob", 900)
	require.NoError(t, err)
	_, err = store.SubmitBest(ctx, domain.GlobalBoard("p"), "alice", 300)
	require.NoError(t, err)

	snap, err := svc.GetMeta(ctx, identity.New("p", "alice"), 1)
	require.NoError(t, err)
	require.Len(t, snap.Leaderboard.Top, 1)
	assert.Equal(t, "bob", snap.Leaderboard.Top[0].Username)
	require.NotNil(t, snap.Leaderboard.Me)
	assert.Equal(t, 2, snap.Leaderboard.Me.Rank)
	assert.Equal(t, int64(2), snap.Leaderboard.TotalPlayers)
}

func TestEquipPerk(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.EquipPerk(ctx, identity.New("p", ""), catalog.PerkArcSynth)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown perk", func(t *testing.T) {
		_, err := svc.EquipPerk(ctx, alice, "laser_eyes")
		assert.ErrorIs(t, err, domain.ErrUnknownPerk)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("locked perk", func(t *testing.T) {
		_, err := svc.EquipPerk(ctx, alice, catalog.PerkTempoCore)
		assert.ErrorIs(t, err, domain.ErrPerkLocked)
	})

	t.Run("toggle", func(t *testing.T) {
		res, err := svc.EquipPerk(ctx, alice, catalog.PerkArcSynth)
		require.NoError(t, err)
		assert.Equal(t, []domain.EquippedPerk{{PerkID: catalog.PerkArcSynth, Level: 1}}, res.EquippedPerks)

		saved, err := store.GetProgression(ctx, "p", "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{catalog.PerkArcSynth}, saved.EquippedPerkIDs())

		res, err = svc.EquipPerk(ctx, alice, catalog.PerkArcSynth)
		require.NoError(t, err)
		assert.Empty(t, res.EquippedPerks)
	})
}

func TestEquipPerk_Limit(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	alice := identity.New("p", "alice")

	p := progression.NewProfile("alice", testNow)
	p.Level = 10
	progression.SyncUnlocks(p)
	require.NoError(t, store.SaveProgression(ctx, "p", p))

	for _, id := range []string{catalog.PerkArcSynth, catalog.PerkVolatileMatrix, catalog.PerkStreakResonator} {
		_, err := svc.EquipPerk(ctx, alice, id)
		require.NoError(t, err)
	}
	_, err := svc.EquipPerk(ctx, alice, catalog.PerkTempoCore)
	assert.ErrorIs(t, err, domain.ErrPerkLimit)
}
