package domain

import "time"

// Leaderboard view limits
const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// BoardKey identifies one sorted score structure.
type BoardKey string

// GlobalBoard is the all-time best score board of a scope.
func GlobalBoard(scope string) BoardKey {
	return BoardKey("lb:" + scope)
}

// ChallengeBoard is the per-cycle board of a challenge mode within a scope.
func ChallengeBoard(scope string, mode Mode, cycleKey string) BoardKey {
	return BoardKey("lb:" + scope + ":" + string(mode) + ":" + cycleKey)
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

// LeaderboardStanding is the caller's own position.
type LeaderboardStanding struct {
	Rank  int   `json:"rank"`
	Score int64 `json:"score"`
}

// LeaderboardSnapshot is a point-in-time view of a board.
type LeaderboardSnapshot struct {
	Top          []LeaderboardEntry   `json:"top"`
	Me           *LeaderboardStanding `json:"me"`
	TotalPlayers int64                `json:"totalPlayers"`
	GeneratedAt  time.Time            `json:"generatedAt"`
}

// ScoreSubmission is the result of a direct score submit.
type ScoreSubmission struct {
	Username  string    `json:"username"`
	Score     int64     `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}
