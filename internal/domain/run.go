package domain

import "time"

// Run lifecycle constants
const (
	RunTTL               = 20 * time.Minute
	OfferedMutatorCount  = 3
	DefaultMutatorCount  = 2
	MaxSubmittedScore    = 1_000_000_000
	NoChallengeSeedLabel = "normal"
)

// RunSession is the single-use authorization for converting one score into rewards.
type RunSession struct {
	Ticket            string     `json:"ticket"`
	Scope             string     `json:"scope"`
	Username          string     `json:"username"`
	Mode              Mode       `json:"mode"`
	Seed              uint32     `json:"seed"`
	OfferedMutatorIDs []string   `json:"offeredMutatorIds"`
	DefaultMutatorIDs []string   `json:"defaultMutatorIds"`
	SelectedPerkIDs   []string   `json:"selectedPerkIds"`
	ChallengeCycleKey string     `json:"challengeCycleKey,omitempty"`
	StartedAt         time.Time  `json:"startedAt"`
	ExpiresAt         time.Time  `json:"expiresAt"`
	ClaimedAt         *time.Time `json:"claimedAt,omitempty"`
}

// Expired reports whether the session can no longer be completed at now.
func (s *RunSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// ChallengeSnapshot is derived from (mode, cycle key) and never stored.
type ChallengeSnapshot struct {
	Mode        Mode      `json:"mode"`
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MutatorIDs  []string  `json:"mutatorIds"`
	TargetScore int64     `json:"targetScore"`
	RewardBonus int       `json:"rewardBonus"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Completed   bool      `json:"completed"`
}

// ClaimKey is the key under which the challenge claim is recorded.
func (c ChallengeSnapshot) ClaimKey() string {
	return ChallengeClaimKey(c.Mode, c.Key)
}

// ChallengeClaimKey joins a mode and cycle key as "mode:cycleKey".
func ChallengeClaimKey(mode Mode, cycleKey string) string {
	return string(mode) + ":" + cycleKey
}

// RewardBreakdown is the reward report for one completed run.
type RewardBreakdown struct {
	XPGained        int     `json:"xpGained"`
	CurrencyGained  int     `json:"currencyGained"`
	ScoreMultiplier float64 `json:"scoreMultiplier"`
	StreakBonus     float64 `json:"streakBonus"`
	ChallengeBonus  int     `json:"challengeBonus"`
	PerkBonus       float64 `json:"perkBonus"`
	LevelUps        int     `json:"levelUps"`
}

// RunStart is returned to the client when a run is issued.
type RunStart struct {
	Ticket            string             `json:"ticket"`
	Mode              Mode               `json:"mode"`
	Seed              uint32             `json:"seed"`
	OfferedMutatorIDs []string           `json:"offeredMutatorIds"`
	DefaultMutatorIDs []string           `json:"defaultMutatorIds"`
	Challenge         *ChallengeSnapshot `json:"challenge,omitempty"`
	StartedAt         time.Time          `json:"startedAt"`
	ExpiresAt         time.Time          `json:"expiresAt"`
	Profile           ProfileView        `json:"profile"`
}

// RunCompletion is the request to convert a finished run into rewards.
type RunCompletion struct {
	Ticket          string
	Score           float64
	SurvivedSeconds *float64
	MutatorIDs      []string
}

// RunSummary lists what a completed run used and achieved.
type RunSummary struct {
	MutatorIDs          []string `json:"mutatorIds"`
	CompletedChallenges []string `json:"completedChallenges"`
}

// RunResult is the full outcome of a completed run.
type RunResult struct {
	Mode        Mode                `json:"mode"`
	Score       int64               `json:"score"`
	BestScore   int64               `json:"bestScore"`
	Reward      RewardBreakdown     `json:"reward"`
	Profile     ProfileView         `json:"profile"`
	Leaderboard LeaderboardSnapshot `json:"leaderboard"`
	Quests      []PlayerQuest       `json:"quests"`
	RunSummary  RunSummary          `json:"runSummary"`
	CompletedAt time.Time           `json:"completedAt"`
}

// MetaSnapshot is the full meta view returned to the client.
type MetaSnapshot struct {
	Profile          ProfileView         `json:"profile"`
	Quests           []PlayerQuest       `json:"quests"`
	ActiveChallenges []ChallengeSnapshot `json:"activeChallenges"`
	Catalog          Catalog             `json:"catalog"`
	Leaderboard      LeaderboardSnapshot `json:"leaderboard"`
	GeneratedAt      time.Time           `json:"generatedAt"`
}
