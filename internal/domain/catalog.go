package domain

// QuestScope decides which cycle a quest resets on.
type QuestScope string

const (
	QuestScopeDaily  QuestScope = "daily"
	QuestScopeWeekly QuestScope = "weekly"
)

// QuestMetric is what a completed run adds to quest progress.
type QuestMetric string

const (
	QuestMetricRuns  QuestMetric = "runs"
	QuestMetricScore QuestMetric = "score"
)

// PerkDefinition describes an equippable upgrade.
type PerkDefinition struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UnlockLevel int    `json:"unlockLevel"`
	MaxLevel    int    `json:"maxLevel"`
}

// MutatorDefinition describes a run modifier offered at run start.
type MutatorDefinition struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	ScoreMultiplier float64 `json:"scoreMultiplier"`
	Difficulty      int     `json:"difficulty"`
	Theme           string  `json:"theme"`
}

// QuestTemplate is a static quest definition; progress lives on the player.
type QuestTemplate struct {
	ID             string      `json:"id"`
	Scope          QuestScope  `json:"scope"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Target         int64       `json:"target"`
	RewardCurrency int         `json:"rewardCurrency"`
	Metric         QuestMetric `json:"metric"`
}

// Catalog is the public view of the static tables.
type Catalog struct {
	Perks    []PerkDefinition    `json:"perks"`
	Mutators []MutatorDefinition `json:"mutators"`
}
