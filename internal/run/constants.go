package run

// Rejection reasons reported on run.rejected events
const (
	RejectReasonNotFound = "not_found"
	RejectReasonExpired  = "expired"
)

// Log Messages
const (
	LogMsgRunStarted          = "Run started"
	LogMsgRunCompleted        = "Run completed"
	LogMsgRunRejected         = "Run completion rejected"
	LogMsgSessionDeleteFailed = "Failed to delete run session"
	LogMsgRunSettleFailed     = "Failed to settle run rewards"

	LogMsgLeaderboardSnapshotFailed = "Failed to read leaderboard after run"
)

// Error Messages
const (
	ErrMsgSurvivedSecondsInvalid = "survivedSeconds must be a finite non-negative number"
)
