package redis

import "time"

// Connection defaults
const (
	DefaultDialTimeout = 5 * time.Second
)

// SessionRetention is how long a run session key outlives its expiry.
const SessionRetention = time.Hour

// Error Messages
const (
	ErrMsgMissingAddr = "redis address is required"
)

// Operation names reported in wrapped store errors
const (
	opGetProgression  = "get progression"
	opSaveProgression = "save progression"
	opCreateSession   = "create session"
	opClaimSession    = "claim session"
	opDeleteSession   = "delete session"
	opSubmitBest      = "submit best"
	opTop             = "leaderboard top"
	opStanding        = "leaderboard standing"
	opCount           = "leaderboard count"
	opGetState        = "get state"
	opSaveState       = "save state"
	opPing            = "ping"
)
