package database

// Connection pool defaults
const (
	// DefaultMinConnections is the minimum number of connections kept open
	DefaultMinConnections = 2
)

// Error Messages - Connection setup
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
	ErrMsgFailedMigrationStatus   = "failed to read migration status"
)

// Log Messages
const (
	LogMsgConnectedToDatabase = "Connected to the database"
	LogMsgMigrationsApplied   = "Database migrations applied"
)
