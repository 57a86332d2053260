// Package config loads service settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	APIKey         string   `env:"API_KEY"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	LogSource   bool   `env:"LOG_SOURCE"`
	LogDir      string `env:"LOG_DIR"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"riftrunner"`
	Version     string `env:"VERSION" envDefault:"dev"`

	StoreBackend string        `env:"STORE_BACKEND" envDefault:"redis"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"2s"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// DatabaseURL wins over the DB_* parts when set
	DatabaseURL    string        `env:"DATABASE_URL"`
	DBUser         string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost         string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string        `env:"DB_PORT" envDefault:"5432"`
	DBName         string        `env:"DB_NAME" envDefault:"riftrunner"`
	DBMaxConns     int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMaxConnIdle  time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	DBMaxConnLife  time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	MigrateOnStart bool          `env:"DB_MIGRATE_ON_START" envDefault:"true"`

	LeaderboardDefaultLimit int `env:"LEADERBOARD_DEFAULT_LIMIT" envDefault:"10"`

	ChallengeCacheSize int           `env:"CHALLENGE_CACHE_SIZE" envDefault:"64"`
	ChallengeCacheTTL  time.Duration `env:"CHALLENGE_CACHE_TTL" envDefault:"1h"`

	RateLimitWindow      time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"5m"`
	RateLimitMaxRequests int           `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"1000"`

	EventMaxRetries     int           `env:"EVENT_MAX_RETRIES" envDefault:"5"`
	EventRetryDelay     time.Duration `env:"EVENT_RETRY_DELAY" envDefault:"2s"`
	EventDeadLetterPath string        `env:"EVENT_DEAD_LETTER_PATH" envDefault:"logs/event_deadletter.jsonl"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnv, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the API key and the settings the chosen backend needs.
func (c *Config) Validate() error {
	var errs []error

	if c.APIKey == "" {
		errs = append(errs, errors.New(ErrMsgAPIKeyRequired))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, errors.New(ErrMsgInvalidPort))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New(ErrMsgInvalidStoreTimeout))
	}
	if c.LeaderboardDefaultLimit <= 0 {
		errs = append(errs, errors.New(ErrMsgInvalidLimit))
	}

	switch c.StoreBackend {
	case StoreBackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New(ErrMsgRedisAddrRequired))
		}
	case StoreBackendPostgres:
	case StoreBackendMemory:
		if c.Environment == EnvironmentProduction {
			errs = append(errs, errors.New(ErrMsgMemoryInProduction))
		}
	default:
		errs = append(errs, fmt.Errorf("%s: got %q", ErrMsgUnknownBackend, c.StoreBackend))
	}

	return errors.Join(errs...)
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
