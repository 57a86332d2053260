package progression

import "github.com/osse101/RiftRunner_Go/internal/domain"

// Level curve constants
const (
	XPPerLevel          = 120
	XPBase              = 180
	LevelUpCurrencyGift = 25
)

// XPToNext is the XP needed to leave level.
func XPToNext(level int) int {
	return level*XPPerLevel + XPBase
}

// GrantXP adds xp and resolves any level-ups it causes.
// Each level gained awards LevelUpCurrencyGift currency and may unlock perks.
func GrantXP(p *domain.PlayerProgression, xp int) (levelUps int) {
	p.XP += max(0, xp)
	for p.Level < domain.MaxLevel && p.XP >= XPToNext(p.Level) {
		p.XP -= XPToNext(p.Level)
		p.Level++
		p.Currency += LevelUpCurrencyGift
		levelUps++
	}
	if levelUps > 0 {
		SyncUnlocks(p)
	}
	return levelUps
}
