// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the admin API server will bind to.
	ServerHost string
	// ServerPort is the port number the admin API server will listen on.
	ServerPort int

	// DBDriver is the local database driver ("sqlite" or "postgres").
	DBDriver string
	// DBConnectionString is the connection string for the local database.
	DBConnectionString string
	// DBMaxOpenConnections is the maximum number of open connections.
	// Ignored for sqlite, which is always capped at a single connection.
	DBMaxOpenConnections int
	// DBMaxIdleConnections is the maximum number of idle connections in the pool.
	DBMaxIdleConnections int
	// DBConnMaxLifetime is the maximum amount of time a connection may be reused.
	DBConnMaxLifetime time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// SyncTickInterval is how often the dispatcher wakes to check whether a
	// sync pass is due.
	SyncTickInterval time.Duration
	// SyncRequestTimeout bounds each outbound push request to the remote.
	SyncRequestTimeout time.Duration
	// SyncMaxRetries is the number of delivery attempts before an entry is
	// parked as failed.
	SyncMaxRetries int
	// SyncRetentionKeep is how many sync sessions and delivered outbox
	// entries the sweeper keeps.
	SyncRetentionKeep int

	// RateLimitEnabled indicates whether rate limiting on the admin API is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for admin API rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	loadDotEnv()

	return &Config{
		ServerHost: env.GetString("SERVER_HOST", "127.0.0.1"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		DBDriver:             env.GetString("DB_DRIVER", "sqlite"),
		DBConnectionString:   env.GetString("DB_CONNECTION_STRING", "file:sineshin.db"),
		DBMaxOpenConnections: env.GetInt("DB_MAX_OPEN_CONNECTIONS", 25),
		DBMaxIdleConnections: env.GetInt("DB_MAX_IDLE_CONNECTIONS", 5),
		DBConnMaxLifetime:    env.GetDuration("DB_CONN_MAX_LIFETIME", 5, time.Minute),

		LogLevel: env.GetString("LOG_LEVEL", "info"),

		SyncTickInterval:   env.GetDuration("SYNC_TICK_INTERVAL_SECONDS", 5, time.Second),
		SyncRequestTimeout: env.GetDuration("SYNC_REQUEST_TIMEOUT_SECONDS", 10, time.Second),
		SyncMaxRetries:     env.GetInt("SYNC_MAX_RETRIES", 5),
		SyncRetentionKeep:  env.GetInt("SYNC_RETENTION_KEEP", 100),

		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "sineshin"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	if c.LogLevel == "debug" {
		return "debug"
	}
	return "release"
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
}
