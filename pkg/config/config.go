package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/felixgeelhaar/catalog/internal/shared/infrastructure/database"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// DefaultOwnerID owns the products of a single-user local catalog.
const DefaultOwnerID = "00000000-0000-0000-0000-000000000001"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	OwnerID   uuid.UUID

	// Database
	DatabaseDriver   string
	DatabaseURL      string
	DatabaseMaxConns int
	SQLitePath       string
	LocalMode        bool

	// Redis
	RedisURL        string
	ProductCacheTTL time.Duration

	// RabbitMQ
	RabbitMQURL      string
	RabbitMQExchange string

	// Outbox
	OutboxPollInterval     time.Duration
	OutboxBatchSize        int
	OutboxMaxRetries       int
	OutboxRetryBackoffBase time.Duration
	OutboxRetryBackoffMax  time.Duration
	OutboxStatsInterval    time.Duration
	OutboxRetentionDays    int
	OutboxCleanupInterval  time.Duration
	OutboxProcessorEnabled bool

	// Circuit breaker around the broker
	BreakerFailureThreshold int
	BreakerMaxRequests      int
	BreakerInterval         time.Duration
	BreakerTimeout          time.Duration

	// Worker
	WorkerHealthAddr string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	ownerID, err := uuid.Parse(getEnv("CATALOG_OWNER_ID", DefaultOwnerID))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_OWNER_ID: %w", err)
	}

	driver, err := database.ParseDriver(getEnv("DATABASE_DRIVER", "auto"))
	if err != nil {
		return nil, err
	}
	databaseURL := getEnv("DATABASE_URL", "")

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		OwnerID:   ownerID,

		DatabaseDriver:   driver.String(),
		DatabaseURL:      databaseURL,
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 0),
		SQLitePath:       getEnv("SQLITE_PATH", database.DefaultSQLitePath()),
		LocalMode:        getBoolEnv("CATALOG_LOCAL_MODE", driver.Resolve(databaseURL) == database.DriverSQLite),

		RedisURL:        getEnv("REDIS_URL", ""),
		ProductCacheTTL: getDurationEnv("PRODUCT_CACHE_TTL", 5*time.Minute),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "catalog.events"),

		OutboxPollInterval:     getDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond),
		OutboxBatchSize:        getIntEnv("OUTBOX_BATCH_SIZE", 100),
		OutboxMaxRetries:       getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxRetryBackoffBase: getDurationEnv("OUTBOX_RETRY_BACKOFF_BASE", time.Second),
		OutboxRetryBackoffMax:  getDurationEnv("OUTBOX_RETRY_BACKOFF_MAX", time.Minute),
		OutboxStatsInterval:    getDurationEnv("OUTBOX_STATS_INTERVAL", 30*time.Second),
		OutboxRetentionDays:    getIntEnv("OUTBOX_RETENTION_DAYS", 7),
		OutboxCleanupInterval:  getDurationEnv("OUTBOX_CLEANUP_INTERVAL", time.Hour),
		OutboxProcessorEnabled: getBoolEnv("OUTBOX_PROCESSOR_ENABLED", true),

		BreakerFailureThreshold: getIntEnv("BREAKER_FAILURE_THRESHOLD", 5),
		BreakerMaxRequests:      getIntEnv("BREAKER_MAX_REQUESTS", 1),
		BreakerInterval:         getDurationEnv("BREAKER_INTERVAL", time.Minute),
		BreakerTimeout:          getDurationEnv("BREAKER_TIMEOUT", 30*time.Second),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", "0.0.0.0:8081"),
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// IsLocalMode returns true when the catalog runs against a local SQLite file.
func (c *Config) IsLocalMode() bool {
	return c.LocalMode
}

// IsSQLite returns true if SQLite should be used.
func (c *Config) IsSQLite() bool {
	return c.DatabaseDriver == string(database.DriverSQLite) ||
		(c.DatabaseDriver != string(database.DriverPostgres) && c.LocalMode)
}

// IsPostgres returns true if PostgreSQL should be used.
func (c *Config) IsPostgres() bool {
	return !c.IsSQLite()
}

// Driver returns the database driver to open.
func (c *Config) Driver() database.Driver {
	if c.IsSQLite() {
		return database.DriverSQLite
	}
	return database.DriverPostgres
}

// OutboxRetention converts OutboxRetentionDays to a duration. Zero or less
// keeps published messages forever.
func (c *Config) OutboxRetention() time.Duration {
	if c.OutboxRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
