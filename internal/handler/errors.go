package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// HTTP status messages
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Identity error messages
	ErrMsgMissingScope = "Missing X-Scope-ID header"

	// Parameter validation error messages
	ErrMsgInvalidLimit = "Invalid limit parameter"
	ErrMsgInvalidMode  = "Invalid mode parameter"
)

// Operation names used in logs
const (
	OpGetMeta                 = "Get meta"
	OpEquipPerk               = "Equip perk"
	OpStartRun                = "Start run"
	OpCompleteRun             = "Complete run"
	OpGetLeaderboard          = "Get leaderboard"
	OpGetChallengeLeaderboard = "Get challenge leaderboard"
	OpSubmitScore             = "Submit score"
	OpGetState                = "Get state"
	OpPutState                = "Put state"
)

// Header names
const (
	HeaderScopeID  = "X-Scope-ID"
	HeaderUsername = "X-Username"
)

// Query parameter names
const (
	QueryParamLimit = "limit"
	QueryParamMode  = "mode"
)
