package domain

import "time"

// ProgressionSchemaVersion is the current stored document version.
// Increment it together with a migration step in the progression codec.
const ProgressionSchemaVersion = 1

// Progression limits
const (
	MinLevel         = 1
	MaxLevel         = 999
	MaxEquippedPerks = 3
)

// EquippedPerk is a perk slot on the player's loadout.
type EquippedPerk struct {
	PerkID string `json:"perkId"`
	Level  int    `json:"level"`
}

// QuestProgress tracks one quest template within its current cycle.
type QuestProgress struct {
	CycleKey string `json:"cycleKey"`
	Progress int64  `json:"progress"`
	Claimed  bool   `json:"claimed"`
}

// PlayerProgression is the long-lived meta state of one player in one scope.
type PlayerProgression struct {
	SchemaVersion     int                      `json:"schemaVersion"`
	Username          string                   `json:"username"`
	Level             int                      `json:"level"`
	XP                int                      `json:"xp"`
	Currency          int                      `json:"currency"`
	Streak            int                      `json:"streak"`
	UnlockedPerkIDs   []string                 `json:"unlockedPerkIds"`
	EquippedPerks     []EquippedPerk           `json:"equippedPerks"`
	LifetimeRuns      int                      `json:"lifetimeRuns"`
	LifetimeBestScore int64                    `json:"lifetimeBestScore"`
	LastPlayedDayKey  string                   `json:"lastPlayedDayKey,omitempty"`
	QuestProgress     map[string]QuestProgress `json:"questProgress"`
	ChallengeClaims   map[string]bool          `json:"challengeClaims"`
	UpdatedAt         time.Time                `json:"updatedAt"`
}

// EquippedPerkIDs returns the ids of the equipped perks in slot order.
func (p *PlayerProgression) EquippedPerkIDs() []string {
	ids := make([]string, 0, len(p.EquippedPerks))
	for _, perk := range p.EquippedPerks {
		ids = append(ids, perk.PerkID)
	}
	return ids
}

// HasUnlocked reports whether perkID is in the unlocked set.
func (p *PlayerProgression) HasUnlocked(perkID string) bool {
	for _, id := range p.UnlockedPerkIDs {
		if id == perkID {
			return true
		}
	}
	return false
}

// ProfileView is the player-facing projection of PlayerProgression.
type ProfileView struct {
	Username          string         `json:"username"`
	Level             int            `json:"level"`
	XP                int            `json:"xp"`
	XPToNextLevel     int            `json:"xpToNextLevel"`
	Currency          int            `json:"currency"`
	Streak            int            `json:"streak"`
	EquippedPerks     []EquippedPerk `json:"equippedPerks"`
	UnlockedPerkIDs   []string       `json:"unlockedPerkIds"`
	LifetimeRuns      int            `json:"lifetimeRuns"`
	LifetimeBestScore int64          `json:"lifetimeBestScore"`
	LastPlayedDayKey  string         `json:"lastPlayedDay,omitempty"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// PlayerQuest is a quest template joined with the player's cycle progress.
type PlayerQuest struct {
	ID             string     `json:"id"`
	Scope          QuestScope `json:"scope"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Target         int64      `json:"target"`
	Progress       int64      `json:"progress"`
	RewardCurrency int        `json:"rewardCurrency"`
	Completed      bool       `json:"completed"`
	Claimable      bool       `json:"claimable"`
}
