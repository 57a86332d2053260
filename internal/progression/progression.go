// Package progression owns the player meta-progression aggregate: its stored
// schema, the level curve, streak rule, perk loadout and quest cycles.
package progression

import (
	"time"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// NewProfile returns the default progression for a first-time player.
func NewProfile(username string, now time.Time) *domain.PlayerProgression {
	return &domain.PlayerProgression{
		SchemaVersion:   domain.ProgressionSchemaVersion,
		Username:        username,
		Level:           domain.MinLevel,
		UnlockedPerkIDs: catalog.PerksUnlockedAt(domain.MinLevel),
		EquippedPerks:   []domain.EquippedPerk{},
		QuestProgress:   map[string]domain.QuestProgress{},
		ChallengeClaims: map[string]bool{},
		UpdatedAt:       now,
	}
}

// View projects the aggregate into its client-facing shape.
func View(p *domain.PlayerProgression) domain.ProfileView {
	return domain.ProfileView{
		Username:          p.Username,
		Level:             p.Level,
		XP:                p.XP,
		XPToNextLevel:     XPToNext(p.Level),
		Currency:          p.Currency,
		Streak:            p.Streak,
		EquippedPerks:     append([]domain.EquippedPerk{}, p.EquippedPerks...),
		UnlockedPerkIDs:   append([]string{}, p.UnlockedPerkIDs...),
		LifetimeRuns:      p.LifetimeRuns,
		LifetimeBestScore: p.LifetimeBestScore,
		LastPlayedDayKey:  p.LastPlayedDayKey,
		UpdatedAt:         p.UpdatedAt,
	}
}

// Normalize enforces the aggregate invariants in place.
func Normalize(p *domain.PlayerProgression) {
	p.SchemaVersion = domain.ProgressionSchemaVersion
	p.Level = clampInt(p.Level, domain.MinLevel, domain.MaxLevel)
	p.XP = max(0, p.XP)
	p.Currency = max(0, p.Currency)
	p.Streak = max(0, p.Streak)
	p.LifetimeRuns = max(0, p.LifetimeRuns)
	p.LifetimeBestScore = max(0, p.LifetimeBestScore)

	if p.QuestProgress == nil {
		p.QuestProgress = map[string]domain.QuestProgress{}
	}
	for id, qp := range p.QuestProgress {
		if qp.CycleKey == "" {
			delete(p.QuestProgress, id)
			continue
		}
		if qp.Progress < 0 {
			qp.Progress = 0
			p.QuestProgress[id] = qp
		}
	}
	if p.ChallengeClaims == nil {
		p.ChallengeClaims = map[string]bool{}
	}

	SyncUnlocks(p)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
