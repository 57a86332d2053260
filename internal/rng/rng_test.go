package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pool = []string{"a", "b", "c", "d", "e", "f"}

func TestHash_KnownValues(t *testing.T) {
	// FNV-1a reference vectors
	assert.Equal(t, uint32(2166136261), Hash(""))
	assert.Equal(t, uint32(0xe40c292c), Hash("a"))
	assert.Equal(t, uint32(0xbf9cf968), Hash("foobar"))
}

func TestHash_OrderAndCaseSensitive(t *testing.T) {
	assert.NotEqual(t, Hash("daily:2026-10-19"), Hash("weekly:2026-10-19"))
	assert.NotEqual(t, Hash("ab"), Hash("ba"))
	assert.NotEqual(t, Hash("Ab"), Hash("ab"))
}

func TestPickUnique_Deterministic(t *testing.T) {
	first := PickUnique(42, 5, pool)
	second := PickUnique(42, 5, pool)

	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestPickUnique_NoDuplicates(t *testing.T) {
	for seed := uint32(0); seed < 200; seed++ {
		got := PickUnique(seed, 3, pool)
		seen := map[string]bool{}
		for _, id := range got {
			assert.False(t, seen[id], "duplicate %s for seed %d", id, seed)
			seen[id] = true
		}
	}
}

func TestPickUnique_FirstPickFollowsLCG(t *testing.T) {
	// 42*1664525 + 1013904223 = 1083814273; 1083814273 % 6 = 1
	got := PickUnique(42, 1, pool)
	assert.Equal(t, []string{"b"}, got)
}

func TestPickUnique_CountExceedsPool(t *testing.T) {
	got := PickUnique(7, 10, pool)
	assert.Len(t, got, len(pool))
	assert.ElementsMatch(t, pool, got)
}

func TestPickUnique_DoesNotMutatePool(t *testing.T) {
	before := append([]string(nil), pool...)
	_ = PickUnique(99, 4, pool)
	assert.Equal(t, before, pool)
}

func TestPickUnique_EmptyInputs(t *testing.T) {
	assert.Empty(t, PickUnique(1, 0, pool))
	assert.Empty(t, PickUnique(1, 3, nil))
}
