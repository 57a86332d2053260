// Package rng provides the deterministic hashing and sampling used for
// mutator offers and cycle challenges.
package rng

import "unicode/utf16"

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619

	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// Hash is 32-bit FNV-1a over the UTF-16 code units of seed.
func Hash(seed string) uint32 {
	h := fnvOffset
	for _, unit := range utf16.Encode([]rune(seed)) {
		h ^= uint32(unit)
		h *= fnvPrime
	}
	return h
}

// Source is a linear congruential generator over uint32.
type Source struct {
	state uint32
}

// NewSource seeds a generator.
func NewSource(seed uint32) *Source {
	return &Source{state: seed}
}

// Next advances the generator and returns the new state.
func (s *Source) Next() uint32 {
	s.state = s.state*lcgMultiplier + lcgIncrement
	return s.state
}

// PickUnique samples count ids from pool without replacement.
// The same seed and pool always yield the same sequence; pool is not modified.
// A count larger than the pool returns every element in pick order.
func PickUnique(seed uint32, count int, pool []string) []string {
	if count <= 0 || len(pool) == 0 {
		return []string{}
	}
	remaining := append([]string(nil), pool...)
	if count > len(remaining) {
		count = len(remaining)
	}

	src := NewSource(seed)
	picked := make([]string, 0, count)
	for len(picked) < count {
		idx := int(src.Next() % uint32(len(remaining)))
		picked = append(picked, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return picked
}
