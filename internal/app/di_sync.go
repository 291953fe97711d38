package app

import (
	"fmt"

	syncHTTP "github.com/bkjonathan/sine-shin/internal/sync/http"
	syncRepository "github.com/bkjonathan/sine-shin/internal/sync/repository"
	syncService "github.com/bkjonathan/sine-shin/internal/sync/service"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// ConfigRepository returns the remote configuration repository based on database driver.
func (c *Container) ConfigRepository() (syncUsecase.ConfigRepository, error) {
	var err error
	c.configRepoInit.Do(func() {
		c.configRepo, err = c.initConfigRepository()
		if err != nil {
			c.initErrors["configRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configRepo"]; exists {
		return nil, storedErr
	}
	return c.configRepo, nil
}

// SessionRepository returns the sync session repository based on database driver.
func (c *Container) SessionRepository() (syncUsecase.SessionRepository, error) {
	var err error
	c.sessionRepoInit.Do(func() {
		c.sessionRepo, err = c.initSessionRepository()
		if err != nil {
			c.initErrors["sessionRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionRepo"]; exists {
		return nil, storedErr
	}
	return c.sessionRepo, nil
}

// SnapshotRepository returns the business-table snapshot repository based on database driver.
func (c *Container) SnapshotRepository() (syncUsecase.SnapshotRepository, error) {
	var err error
	c.snapshotRepoInit.Do(func() {
		c.snapshotRepo, err = c.initSnapshotRepository()
		if err != nil {
			c.initErrors["snapshotRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["snapshotRepo"]; exists {
		return nil, storedErr
	}
	return c.snapshotRepo, nil
}

// Pusher returns the remote push service.
func (c *Container) Pusher() syncService.Pusher {
	c.pusherInit.Do(func() {
		c.pusher = syncService.NewHTTPPusher(c.config.SyncRequestTimeout)
	})
	return c.pusher
}

// Runner returns the sync session runner.
func (c *Container) Runner() (*syncUsecase.Runner, error) {
	var err error
	c.runnerInit.Do(func() {
		c.runner, err = c.initRunner()
		if err != nil {
			c.initErrors["runner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["runner"]; exists {
		return nil, storedErr
	}
	return c.runner, nil
}

// Dispatcher returns the background sync dispatcher.
func (c *Container) Dispatcher() (*syncUsecase.Dispatcher, error) {
	var err error
	c.dispatcherInit.Do(func() {
		c.dispatcher, err = c.initDispatcher()
		if err != nil {
			c.initErrors["dispatcher"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// ConfigUseCase returns the remote configuration use case.
func (c *Container) ConfigUseCase() (*syncUsecase.ConfigUseCase, error) {
	var err error
	c.configUseCaseInit.Do(func() {
		c.configUseCase, err = c.initConfigUseCase()
		if err != nil {
			c.initErrors["configUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["configUseCase"]; exists {
		return nil, storedErr
	}
	return c.configUseCase, nil
}

// AdminUseCase returns the queue administration use case.
func (c *Container) AdminUseCase() (*syncUsecase.AdminUseCase, error) {
	var err error
	c.adminUseCaseInit.Do(func() {
		c.adminUseCase, err = c.initAdminUseCase()
		if err != nil {
			c.initErrors["adminUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["adminUseCase"]; exists {
		return nil, storedErr
	}
	return c.adminUseCase, nil
}

// ResyncUseCase returns the secret-gated resync use case.
func (c *Container) ResyncUseCase() (*syncUsecase.ResyncUseCase, error) {
	var err error
	c.resyncUseCaseInit.Do(func() {
		c.resyncUseCase, err = c.initResyncUseCase()
		if err != nil {
			c.initErrors["resyncUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resyncUseCase"]; exists {
		return nil, storedErr
	}
	return c.resyncUseCase, nil
}

// SyncHandler returns the HTTP handler for the synchronization engine.
func (c *Container) SyncHandler() (*syncHTTP.SyncHandler, error) {
	var err error
	c.syncHandlerInit.Do(func() {
		c.syncHandler, err = c.initSyncHandler()
		if err != nil {
			c.initErrors["syncHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["syncHandler"]; exists {
		return nil, storedErr
	}
	return c.syncHandler, nil
}

// initConfigRepository creates the remote configuration repository based on the database driver.
func (c *Container) initConfigRepository() (syncUsecase.ConfigRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for config repository: %w", err)
	}

	switch c.config.DBDriver {
	case "sqlite":
		return syncRepository.NewSQLiteConfigRepository(db), nil
	case "postgres":
		return syncRepository.NewPostgreSQLConfigRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSessionRepository creates the sync session repository based on the database driver.
func (c *Container) initSessionRepository() (syncUsecase.SessionRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for session repository: %w", err)
	}

	switch c.config.DBDriver {
	case "sqlite":
		return syncRepository.NewSQLiteSessionRepository(db), nil
	case "postgres":
		return syncRepository.NewPostgreSQLSessionRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initSnapshotRepository creates the snapshot repository based on the database driver.
func (c *Container) initSnapshotRepository() (syncUsecase.SnapshotRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for snapshot repository: %w", err)
	}

	switch c.config.DBDriver {
	case "sqlite":
		return syncRepository.NewSQLiteSnapshotRepository(db), nil
	case "postgres":
		return syncRepository.NewPostgreSQLSnapshotRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRunner creates the sync session runner with all its dependencies.
func (c *Container) initRunner() (*syncUsecase.Runner, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for runner: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for runner: %w", err)
	}

	configRepo, err := c.ConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get config repository for runner: %w", err)
	}

	snapshotRepo, err := c.SnapshotRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot repository for runner: %w", err)
	}

	syncMetrics, err := c.SyncMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get sync metrics for runner: %w", err)
	}

	return syncUsecase.NewRunner(
		outboxRepo,
		sessionRepo,
		configRepo,
		snapshotRepo,
		c.Pusher(),
		syncMetrics,
		c.Logger(),
		c.config.SyncMaxRetries,
		c.config.SyncRetentionKeep,
	), nil
}

// initDispatcher creates the background dispatcher with all its dependencies.
func (c *Container) initDispatcher() (*syncUsecase.Dispatcher, error) {
	runner, err := c.Runner()
	if err != nil {
		return nil, fmt.Errorf("failed to get runner for dispatcher: %w", err)
	}

	configRepo, err := c.ConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get config repository for dispatcher: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for dispatcher: %w", err)
	}

	return syncUsecase.NewDispatcher(runner, configRepo, outboxRepo, c.Logger(), c.config.SyncTickInterval), nil
}

// initConfigUseCase creates the remote configuration use case.
func (c *Container) initConfigUseCase() (*syncUsecase.ConfigUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for config use case: %w", err)
	}

	configRepo, err := c.ConfigRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get config repository for config use case: %w", err)
	}

	return syncUsecase.NewConfigUseCase(txManager, configRepo, c.Pusher()), nil
}

// initAdminUseCase creates the queue administration use case.
func (c *Container) initAdminUseCase() (*syncUsecase.AdminUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for admin use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for admin use case: %w", err)
	}

	sessionRepo, err := c.SessionRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get session repository for admin use case: %w", err)
	}

	return syncUsecase.NewAdminUseCase(txManager, outboxRepo, sessionRepo, c.Logger()), nil
}

// initResyncUseCase creates the resync use case with all its dependencies.
func (c *Container) initResyncUseCase() (*syncUsecase.ResyncUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for resync use case: %w", err)
	}

	accountUseCase, err := c.AccountUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get account use case for resync use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for resync use case: %w", err)
	}

	snapshotRepo, err := c.SnapshotRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot repository for resync use case: %w", err)
	}

	configUseCase, err := c.ConfigUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get config use case for resync use case: %w", err)
	}

	runner, err := c.Runner()
	if err != nil {
		return nil, fmt.Errorf("failed to get runner for resync use case: %w", err)
	}

	return syncUsecase.NewResyncUseCase(
		txManager,
		accountUseCase,
		outboxRepo,
		outboxRepo,
		snapshotRepo,
		configUseCase,
		runner,
		c.Logger(),
	), nil
}

// initSyncHandler creates the sync HTTP handler with all its dependencies.
func (c *Container) initSyncHandler() (*syncHTTP.SyncHandler, error) {
	configUseCase, err := c.ConfigUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get config use case for sync handler: %w", err)
	}

	runner, err := c.Runner()
	if err != nil {
		return nil, fmt.Errorf("failed to get runner for sync handler: %w", err)
	}

	adminUseCase, err := c.AdminUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get admin use case for sync handler: %w", err)
	}

	resyncUseCase, err := c.ResyncUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get resync use case for sync handler: %w", err)
	}

	return syncHTTP.NewSyncHandler(configUseCase, runner, adminUseCase, resyncUseCase, c.Logger()), nil
}
