package challenge

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Cache defaults
const (
	DefaultCacheSize = 64
	DefaultCacheTTL  = time.Hour
)

// Deriver memoizes Derive in an expirable LRU keyed by claim key.
// Derivation is deterministic, so a cached value is never stale.
type Deriver struct {
	lru *expirable.LRU[string, domain.ChallengeSnapshot]
}

// NewDeriver creates a Deriver holding at most size snapshots for ttl.
func NewDeriver(size int, ttl time.Duration) *Deriver {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Deriver{
		lru: expirable.NewLRU[string, domain.ChallengeSnapshot](size, nil, ttl),
	}
}

// Derive returns the snapshot for (mode, key), computing it on a miss.
func (d *Deriver) Derive(mode domain.Mode, key string) (domain.ChallengeSnapshot, error) {
	claimKey := domain.ChallengeClaimKey(mode, key)
	if snap, ok := d.lru.Get(claimKey); ok {
		return clone(snap), nil
	}
	snap, err := Derive(mode, key)
	if err != nil {
		return domain.ChallengeSnapshot{}, err
	}
	d.lru.Add(claimKey, snap)
	return clone(snap), nil
}

// Current returns the challenge of mode active at now.
func (d *Deriver) Current(mode domain.Mode, now time.Time) (domain.ChallengeSnapshot, error) {
	key, err := CycleKey(mode, now)
	if err != nil {
		return domain.ChallengeSnapshot{}, err
	}
	return d.Derive(mode, key)
}

// Active returns the daily and weekly challenges at now, with completion
// flags taken from claims.
func (d *Deriver) Active(now time.Time, claims map[string]bool) ([]domain.ChallengeSnapshot, error) {
	out := make([]domain.ChallengeSnapshot, 0, 2)
	for _, mode := range []domain.Mode{domain.ModeDaily, domain.ModeWeekly} {
		snap, err := d.Current(mode, now)
		if err != nil {
			return nil, err
		}
		snap.Completed = claims[snap.ClaimKey()]
		out = append(out, snap)
	}
	return out, nil
}

// Len reports the number of cached snapshots.
func (d *Deriver) Len() int {
	return d.lru.Len()
}

func clone(s domain.ChallengeSnapshot) domain.ChallengeSnapshot {
	s.MutatorIDs = append([]string(nil), s.MutatorIDs...)
	return s
}
