// Package catalog holds the immutable perk, mutator and quest tables.
//
// The tables are initialized once and never mutated; every accessor returns
// copies so callers cannot alter shared state.
package catalog

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/RiftRunner_Go/internal/domain"
)

// Perk ids
const (
	PerkArcSynth        = "arc_synth"
	PerkVolatileMatrix  = "volatile_matrix"
	PerkStreakResonator = "streak_resonator"
	PerkTempoCore       = "tempo_core"
)

// Mutator ids
const (
	MutatorGlassCannon = "glass_cannon"
	MutatorFogProtocol = "fog_protocol"
	MutatorTurboSwarm  = "turbo_swarm"
	MutatorSuddenDeath = "sudden_death"
	MutatorEndlessEcho = "endless_echo"
	MutatorMicroHUD    = "micro_hud"
)

// Quest template ids
const (
	QuestDailyRuns   = "daily_runs"
	QuestDailyScore  = "daily_score"
	QuestWeeklyRuns  = "weekly_runs"
	QuestWeeklyScore = "weekly_score"
)

var printer = message.NewPrinter(language.English)

var perks = []domain.PerkDefinition{
	{
		ID:          PerkArcSynth,
		Name:        "Arc Synth",
		Description: "+12% XP from every completed run.",
		UnlockLevel: 1,
		MaxLevel:    1,
	},
	{
		ID:          PerkVolatileMatrix,
		Name:        "Volatile Matrix",
		Description: "+6% reward scaling per high-risk mutator (difficulty >= 2).",
		UnlockLevel: 2,
		MaxLevel:    1,
	},
	{
		ID:          PerkStreakResonator,
		Name:        "Streak Resonator",
		Description: "+10% currency when streak is 3 or higher.",
		UnlockLevel: 3,
		MaxLevel:    1,
	},
	{
		ID:          PerkTempoCore,
		Name:        "Tempo Core",
		Description: "+8% reward scaling when surviving at least 120 seconds.",
		UnlockLevel: 4,
		MaxLevel:    1,
	},
}

var mutators = []domain.MutatorDefinition{
	{ID: MutatorGlassCannon, Name: "Glass Cannon", Description: "Enemies hit harder, but score rewards are amplified.", ScoreMultiplier: 1.35, Difficulty: 2, Theme: "risk"},
	{ID: MutatorFogProtocol, Name: "Fog Protocol", Description: "Visibility shrinks over time; precision is rewarded.", ScoreMultiplier: 1.22, Difficulty: 1, Theme: "precision"},
	{ID: MutatorTurboSwarm, Name: "Turbo Swarm", Description: "Faster enemy spawns for an aggressive run pace.", ScoreMultiplier: 1.3, Difficulty: 2, Theme: "speed"},
	{ID: MutatorSuddenDeath, Name: "Sudden Death", Description: "No recovery margin. Execute a clean run for huge payoff.", ScoreMultiplier: 1.55, Difficulty: 3, Theme: "risk"},
	{ID: MutatorEndlessEcho, Name: "Endless Echo", Description: "Long-form pressure curve that rewards endurance.", ScoreMultiplier: 1.28, Difficulty: 2, Theme: "endurance"},
	{ID: MutatorMicroHUD, Name: "Micro HUD", Description: "Minimal information; better intuition yields better score.", ScoreMultiplier: 1.2, Difficulty: 1, Theme: "precision"},
}

var quests = []domain.QuestTemplate{
	{
		ID:             QuestDailyRuns,
		Scope:          domain.QuestScopeDaily,
		Title:          "Daily Cadence",
		Description:    printer.Sprintf("Complete %d runs today.", 3),
		Target:         3,
		RewardCurrency: 35,
		Metric:         domain.QuestMetricRuns,
	},
	{
		ID:             QuestDailyScore,
		Scope:          domain.QuestScopeDaily,
		Title:          "Daily Spike",
		Description:    printer.Sprintf("Accumulate %d score today.", 10_000),
		Target:         10_000,
		RewardCurrency: 50,
		Metric:         domain.QuestMetricScore,
	},
	{
		ID:             QuestWeeklyRuns,
		Scope:          domain.QuestScopeWeekly,
		Title:          "Weekly Grinder",
		Description:    printer.Sprintf("Complete %d runs this week.", 15),
		Target:         15,
		RewardCurrency: 180,
		Metric:         domain.QuestMetricRuns,
	},
	{
		ID:             QuestWeeklyScore,
		Scope:          domain.QuestScopeWeekly,
		Title:          "Weekly Peak",
		Description:    printer.Sprintf("Accumulate %d score this week.", 75_000),
		Target:         75_000,
		RewardCurrency: 250,
		Metric:         domain.QuestMetricScore,
	},
}

var (
	perkByID    = indexPerks(perks)
	mutatorByID = indexMutators(mutators)
)

func indexPerks(defs []domain.PerkDefinition) map[string]domain.PerkDefinition {
	m := make(map[string]domain.PerkDefinition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}

func indexMutators(defs []domain.MutatorDefinition) map[string]domain.MutatorDefinition {
	m := make(map[string]domain.MutatorDefinition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return m
}

// Perk looks up a perk definition by id.
func Perk(id string) (domain.PerkDefinition, bool) {
	p, ok := perkByID[id]
	return p, ok
}

// Mutator looks up a mutator definition by id.
func Mutator(id string) (domain.MutatorDefinition, bool) {
	m, ok := mutatorByID[id]
	return m, ok
}

// Perks returns all perk definitions in catalog order.
func Perks() []domain.PerkDefinition {
	return append([]domain.PerkDefinition(nil), perks...)
}

// Mutators returns all mutator definitions in catalog order.
func Mutators() []domain.MutatorDefinition {
	return append([]domain.MutatorDefinition(nil), mutators...)
}

// MutatorIDs returns the mutator pool used for procedural picks.
func MutatorIDs() []string {
	ids := make([]string, 0, len(mutators))
	for _, m := range mutators {
		ids = append(ids, m.ID)
	}
	return ids
}

// Quests returns the quest templates in catalog order.
func Quests() []domain.QuestTemplate {
	return append([]domain.QuestTemplate(nil), quests...)
}

// PerksUnlockedAt returns the ids of every perk available at level.
func PerksUnlockedAt(level int) []string {
	ids := make([]string, 0, len(perks))
	for _, p := range perks {
		if p.UnlockLevel <= level {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Public returns the client-facing catalog.
func Public() domain.Catalog {
	return domain.Catalog{
		Perks:    Perks(),
		Mutators: Mutators(),
	}
}
