// Package challenge derives the daily and weekly challenges. A challenge is a
// pure function of (mode, cycle key); only its claim is ever stored.
package challenge

import (
	"fmt"
	"time"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/cycle"
	"github.com/osse101/RiftRunner_Go/internal/domain"
	"github.com/osse101/RiftRunner_Go/internal/rng"
)

// Challenge tuning
const (
	DailyMutatorCount  = 2
	DailyTargetBase    = 9000
	DailyTargetSpread  = 4000
	DailyBonusBase     = 90
	DailyBonusSpread   = 40
	WeeklyMutatorCount = 3
	WeeklyTargetBase   = 22000
	WeeklyTargetSpread = 8000
	WeeklyBonusBase    = 220
	WeeklyBonusSpread  = 90
)

const (
	dailyTitleFormat  = "Daily Rift %s"
	weeklyTitleFormat = "Weekly Gauntlet %s"
	dailyDescription  = "Fixed mutators for all players today. Beat the target score to secure the bonus."
	weeklyDescription = "Three mutators, one week. Score above target once to lock in the seasonal bonus."
)

// CycleKey returns the current cycle key of a challenge mode.
func CycleKey(mode domain.Mode, now time.Time) (string, error) {
	switch mode {
	case domain.ModeDaily:
		return cycle.DayKey(now), nil
	case domain.ModeWeekly:
		return cycle.WeekKey(now), nil
	}
	return "", fmt.Errorf("%w: mode %s has no challenge", domain.ErrInvalidInput, mode)
}

// Derive builds the challenge of mode for the cycle named by key.
func Derive(mode domain.Mode, key string) (domain.ChallengeSnapshot, error) {
	switch mode {
	case domain.ModeDaily:
		start, err := cycle.DayKeyToTime(key)
		if err != nil {
			return domain.ChallengeSnapshot{}, err
		}
		seed := rng.Hash("daily:" + key)
		return domain.ChallengeSnapshot{
			Mode:        mode,
			Key:         key,
			Title:       fmt.Sprintf(dailyTitleFormat, key),
			Description: dailyDescription,
			MutatorIDs:  rng.PickUnique(seed, DailyMutatorCount, catalog.MutatorIDs()),
			TargetScore: DailyTargetBase + int64(seed%DailyTargetSpread),
			RewardBonus: DailyBonusBase + int(seed%DailyBonusSpread),
			ExpiresAt:   start.AddDate(0, 0, 1),
		}, nil
	case domain.ModeWeekly:
		start, err := cycle.WeekKeyToTime(key)
		if err != nil {
			return domain.ChallengeSnapshot{}, err
		}
		seed := rng.Hash("weekly:" + key)
		return domain.ChallengeSnapshot{
			Mode:        mode,
			Key:         key,
			Title:       fmt.Sprintf(weeklyTitleFormat, key),
			Description: weeklyDescription,
			MutatorIDs:  rng.PickUnique(seed, WeeklyMutatorCount, catalog.MutatorIDs()),
			TargetScore: WeeklyTargetBase + int64(seed%WeeklyTargetSpread),
			RewardBonus: WeeklyBonusBase + int(seed%WeeklyBonusSpread),
			ExpiresAt:   start.AddDate(0, 0, 7),
		}, nil
	}
	return domain.ChallengeSnapshot{}, fmt.Errorf("%w: mode %s has no challenge", domain.ErrInvalidInput, mode)
}

// Current builds the challenge of mode that is active at now.
func Current(mode domain.Mode, now time.Time) (domain.ChallengeSnapshot, error) {
	key, err := CycleKey(mode, now)
	if err != nil {
		return domain.ChallengeSnapshot{}, err
	}
	return Derive(mode, key)
}
