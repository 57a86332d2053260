package config

// Store backends
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// Deployment environments
const (
	EnvironmentDev        = "dev"
	EnvironmentStaging    = "staging"
	EnvironmentProduction = "production"
)

// Error messages
const (
	ErrMsgParseEnv            = "parse env"
	ErrMsgAPIKeyRequired      = "API_KEY environment variable must be set for security"
	ErrMsgUnknownBackend      = "STORE_BACKEND must be one of memory, redis, postgres"
	ErrMsgRedisAddrRequired   = "REDIS_ADDR must be set when STORE_BACKEND=redis"
	ErrMsgInvalidPort         = "PORT must be between 1 and 65535"
	ErrMsgInvalidStoreTimeout = "STORE_TIMEOUT must be positive"
	ErrMsgInvalidLimit        = "LEADERBOARD_DEFAULT_LIMIT must be positive"
	ErrMsgMemoryInProduction  = "STORE_BACKEND=memory is not allowed in production"
)

// Example values shipped in .env.example
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"
)
