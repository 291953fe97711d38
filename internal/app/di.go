// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	accountHTTP "github.com/bkjonathan/sine-shin/internal/account/http"
	accountUsecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
	"github.com/bkjonathan/sine-shin/internal/config"
	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/http"
	"github.com/bkjonathan/sine-shin/internal/metrics"
	outboxUsecase "github.com/bkjonathan/sine-shin/internal/outbox/usecase"
	syncHTTP "github.com/bkjonathan/sine-shin/internal/sync/http"
	syncService "github.com/bkjonathan/sine-shin/internal/sync/service"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	syncMetrics     metrics.SyncMetrics

	// Managers
	txManager database.TxManager

	// Repositories
	outboxRepo   OutboxStore
	configRepo   syncUsecase.ConfigRepository
	sessionRepo  syncUsecase.SessionRepository
	snapshotRepo syncUsecase.SnapshotRepository
	accountRepo  accountUsecase.AccountRepository

	// Services
	pusher syncService.Pusher

	// Use Cases
	outboxWriter   *outboxUsecase.Writer
	runner         *syncUsecase.Runner
	dispatcher     *syncUsecase.Dispatcher
	configUseCase  *syncUsecase.ConfigUseCase
	adminUseCase   *syncUsecase.AdminUseCase
	resyncUseCase  *syncUsecase.ResyncUseCase
	accountUseCase *accountUsecase.AccountUseCase

	// Handlers
	syncHandler    *syncHTTP.SyncHandler
	accountHandler *accountHTTP.AccountHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	dbInit              sync.Once
	metricsProviderInit sync.Once
	syncMetricsInit     sync.Once
	txManagerInit       sync.Once
	outboxRepoInit      sync.Once
	configRepoInit      sync.Once
	sessionRepoInit     sync.Once
	snapshotRepoInit    sync.Once
	accountRepoInit     sync.Once
	pusherInit          sync.Once
	outboxWriterInit    sync.Once
	runnerInit          sync.Once
	dispatcherInit      sync.Once
	configUseCaseInit   sync.Once
	adminUseCaseInit    sync.Once
	resyncUseCaseInit   sync.Once
	accountUseCaseInit  sync.Once
	syncHandlerInit     sync.Once
	accountHandlerInit  sync.Once
	httpServerInit      sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider instance.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// SyncMetrics returns the sync metrics instance.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) SyncMetrics() (metrics.SyncMetrics, error) {
	var err error
	c.syncMetricsInit.Do(func() {
		c.syncMetrics, err = c.initSyncMetrics()
		if err != nil {
			c.initErrors["syncMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["syncMetrics"]; exists {
		return nil, storedErr
	}
	return c.syncMetrics, nil
}

// HTTPServer returns the admin API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// let a resync-triggered session finish before the database closes
	if c.resyncUseCase != nil {
		c.resyncUseCase.Wait()
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initSyncMetrics creates the sync metrics on the shared meter provider.
func (c *Container) initSyncMetrics() (metrics.SyncMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpSyncMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for sync metrics: %w", err)
	}

	syncMetrics, err := metrics.NewSyncMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create sync metrics: %w", err)
	}
	return syncMetrics, nil
}

// initHTTPServer creates the admin API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	syncHandler, err := c.SyncHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get sync handler for http server: %w", err)
	}

	accountHandler, err := c.AccountHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get account handler for http server: %w", err)
	}

	return http.NewServer(c.config, c.Logger(), syncHandler, accountHandler), nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	if !c.config.MetricsEnabled {
		return nil, nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
