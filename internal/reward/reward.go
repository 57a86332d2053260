// Package reward converts a completed run into score, XP and currency.
// Everything here is pure: no clocks, no stores.
package reward

import (
	"math"

	"github.com/osse101/RiftRunner_Go/internal/catalog"
	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Reward formula constants
const (
	MaxPerkBonus        = 0.75
	StreakBonus         = 0.10
	StreakBonusMinimum  = 3
	MinXP               = 10
	XPScoreFactor       = 18
	MinCurrency         = 5
	ScorePerCurrency    = 700
	CurrencyPerMutator  = 4
	RiskDifficulty      = 2
	TempoCoreMinSeconds = 120
)

// Per-perk contributions to the perk bonus
const (
	ArcSynthBonus        = 0.12
	VolatileMatrixBonus  = 0.06
	StreakResonatorBonus = 0.10
	TempoCoreBonus       = 0.08
)

// Input is everything the formulas read.
type Input struct {
	RawScore        float64
	Mode            domain.Mode
	Mutators        []domain.MutatorDefinition
	PerkIDs         []string
	Streak          int
	SurvivedSeconds *float64
}

// Result is the reward before challenge and quest bonuses are added.
type Result struct {
	BaseScore         int64
	AdjustedScore     int64
	MutatorMultiplier float64
	ModeMultiplier    float64
	PerkBonus         float64
	StreakBonus       float64
	XPGained          int
	CurrencyGained    int
}

// ScoreMultiplier is the combined multiplier rounded to 3 decimals.
func (r Result) ScoreMultiplier() float64 {
	return math.Round(r.MutatorMultiplier*r.ModeMultiplier*1000) / 1000
}

// ClampScore truncates a client score into [0, domain.MaxSubmittedScore].
func ClampScore(raw float64) int64 {
	if math.IsNaN(raw) || raw <= 0 {
		return 0
	}
	if raw >= domain.MaxSubmittedScore {
		return domain.MaxSubmittedScore
	}
	return int64(math.Trunc(raw))
}

// Compute applies the score multipliers and the XP and currency formulas.
func Compute(in Input) Result {
	base := ClampScore(in.RawScore)

	mutatorMultiplier := 1.0
	for _, m := range in.Mutators {
		mutatorMultiplier *= m.ScoreMultiplier
	}
	modeMultiplier := in.Mode.Multiplier()

	adjusted := int64(math.Trunc(float64(base) * mutatorMultiplier * modeMultiplier))
	adjusted = max(1, adjusted)

	perkBonus := PerkBonus(in.PerkIDs, in.Streak, in.Mutators, in.SurvivedSeconds)
	streakBonus := 0.0
	if in.Streak >= StreakBonusMinimum {
		streakBonus = StreakBonus
	}

	xpBase := max(MinXP, int(math.Trunc(math.Sqrt(float64(base)+1)*XPScoreFactor)))
	xp := max(MinXP, int(math.Trunc(float64(xpBase)*modeMultiplier*(1+perkBonus+streakBonus))))

	currencyBase := max(MinCurrency, int(math.Trunc(float64(base)/ScorePerCurrency))+CurrencyPerMutator*len(in.Mutators))
	currency := max(MinCurrency, int(math.Trunc(float64(currencyBase)*(1+streakBonus+perkBonus))))

	return Result{
		BaseScore:         base,
		AdjustedScore:     adjusted,
		MutatorMultiplier: mutatorMultiplier,
		ModeMultiplier:    modeMultiplier,
		PerkBonus:         perkBonus,
		StreakBonus:       streakBonus,
		XPGained:          xp,
		CurrencyGained:    currency,
	}
}

// PerkBonus sums the contributions of the run's perks, clamped to [0, MaxPerkBonus].
func PerkBonus(perkIDs []string, streak int, mutators []domain.MutatorDefinition, survivedSeconds *float64) float64 {
	risky := 0
	for _, m := range mutators {
		if m.Difficulty >= RiskDifficulty {
			risky++
		}
	}

	bonus := 0.0
	for _, id := range perkIDs {
		switch id {
		case catalog.PerkArcSynth:
			bonus += ArcSynthBonus
		case catalog.PerkVolatileMatrix:
			bonus += VolatileMatrixBonus * float64(risky)
		case catalog.PerkStreakResonator:
			if streak >= StreakBonusMinimum {
				bonus += StreakResonatorBonus
			}
		case catalog.PerkTempoCore:
			if survivedSeconds != nil && *survivedSeconds >= TempoCoreMinSeconds {
				bonus += TempoCoreBonus
			}
		}
	}
	return math.Max(0, math.Min(bonus, MaxPerkBonus))
}

// MergeMutators picks the authoritative mutator set for scoring: the client's
// candidates that were actually offered, in client order without duplicates,
// or the session defaults when none survive.
func MergeMutators(offered, defaults, requested []string) []string {
	allowed := make(map[string]bool, len(offered))
	for _, id := range offered {
		allowed[id] = true
	}

	selected := make([]string, 0, len(requested))
	seen := map[string]bool{}
	for _, id := range requested {
		if !allowed[id] || seen[id] {
			continue
		}
		seen[id] = true
		selected = append(selected, id)
	}
	if len(selected) > 0 {
		return selected
	}
	return append([]string{}, defaults...)
}

// ResolveMutators maps ids to catalog definitions, skipping unknown ids.
func ResolveMutators(ids []string) []domain.MutatorDefinition {
	defs := make([]domain.MutatorDefinition, 0, len(ids))
	for _, id := range ids {
		if def, ok := catalog.Mutator(id); ok {
			defs = append(defs, def)
		}
	}
	return defs
}
