package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// Operation names reported in wrapped store errors
const (
	opGetProgression  = "get progression"
	opSaveProgression = "save progression"
	opCreateSession   = "create session"
	opClaimSession    = "claim session"
	opDeleteSession   = "delete session"
	opPurgeSessions   = "purge sessions"
	opSubmitBest      = "submit best"
	opTop             = "leaderboard top"
	opStanding        = "leaderboard standing"
	opCount           = "leaderboard count"
	opGetState        = "get state"
	opSaveState       = "save state"
	opPing            = "ping"
)
