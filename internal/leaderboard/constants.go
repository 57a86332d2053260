package leaderboard

// Error Messages
const (
	ErrMsgNoChallengeBoard = "normal mode has no challenge leaderboard"
)
