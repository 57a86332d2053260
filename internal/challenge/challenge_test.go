package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/rng"
)

var now = time.Date(2026, 10, 21, 15, 30, 0, 0, time.UTC) // Wednesday

func TestCurrent_Daily(t *testing.T) {
	snap, err := Current(domain.ModeDaily, now)
	require.NoError(t, err)

	seed := rng.Hash("daily:2026-10-21")
	assert.Equal(t, "2026-10-21", snap.Key)
	assert.Equal(t, "Daily Rift 2026-10-21", snap.Title)
	assert.Equal(t, rng.PickUnique(seed, 2, catalog.MutatorIDs()), snap.MutatorIDs)
	assert.Equal(t, int64(9000+seed%4000), snap.TargetScore)
	assert.Equal(t, 90+int(seed%40), snap.RewardBonus)
	assert.Equal(t, time.Date(2026, 10, 22, 0, 0, 0, 0, time.UTC), snap.ExpiresAt)
	assert.Equal(t, "daily:2026-10-21", snap.ClaimKey())
}

func TestCurrent_Weekly(t *testing.T) {
	snap, err := Current(domain.ModeWeekly, now)
	require.NoError(t, err)

	seed := rng.Hash("weekly:2026-W43")
	assert.Equal(t, "2026-W43", snap.Key)
	assert.Len(t, snap.MutatorIDs, 3)
	assert.GreaterOrEqual(t, snap.TargetScore, int64(22000))
	assert.Less(t, snap.TargetScore, int64(30000))
	assert.Equal(t, 220+int(seed%90), snap.RewardBonus)
	assert.Equal(t, time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC), snap.ExpiresAt)
}

func TestCurrent_SameForEveryoneInCycle(t *testing.T) {
	a, err := Current(domain.ModeDaily, now)
	require.NoError(t, err)
	b, err := Current(domain.ModeDaily, now.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCurrent_NormalHasNoChallenge(t *testing.T) {
	_, err := Current(domain.ModeNormal, now)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDerive_InvalidKey(t *testing.T) {
	_, err := Derive(domain.ModeWeekly, "2026-10-21")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeriver_CachesAndCopies(t *testing.T) {
	d := NewDeriver(8, time.Minute)

	first, err := d.Current(domain.ModeDaily, now)
	require.NoError(t, err)
	first.MutatorIDs[0] = "tampered"

	second, err := d.Current(domain.ModeDaily, now)
	require.NoError(t, err)
	assert.NotEqual(t, "tampered", second.MutatorIDs[0])
	assert.Equal(t, 1, d.Len())
}

func TestDeriver_Active(t *testing.T) {
	d := NewDeriver(0, 0)
	claims := map[string]bool{"weekly:2026-W43": true}

	active, err := d.Active(now, claims)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, domain.ModeDaily, active[0].Mode)
	assert.False(t, active[0].Completed)
	assert.Equal(t, domain.ModeWeekly, active[1].Mode)
	assert.True(t, active[1].Completed)
}
