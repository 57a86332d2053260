package state

// Error Messages
const (
	ErrMsgLevelOrDataRequired = "provide at least one of level or data"
	ErrMsgLevelNotFinite      = "level must be a finite number"
	ErrMsgDataNotObject       = "data must be an object"
	ErrMsgDataRejected        = "data rejected"
)

// Log Messages
const (
	LogMsgDroppedStoredData = "Dropping stored state data that is not a JSON object"
)
