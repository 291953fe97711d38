package app

import (
	"fmt"

	outboxRepository "github.com/bkjonathan/sine-shin/internal/outbox/repository"
	outboxUsecase "github.com/bkjonathan/sine-shin/internal/outbox/usecase"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// OutboxStore combines the sync engine's view of the outbox queue with the
// writer's ability to append entries. Both driver repositories satisfy it,
// the container just needs one field for the shared instance.
type OutboxStore interface {
	syncUsecase.OutboxRepository
	outboxUsecase.EntryRepository
}

// OutboxRepository returns the outbox repository based on database driver.
func (c *Container) OutboxRepository() (OutboxStore, error) {
	var err error
	c.outboxRepoInit.Do(func() {
		c.outboxRepo, err = c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// OutboxWriter returns the outbox writer use case.
func (c *Container) OutboxWriter() (*outboxUsecase.Writer, error) {
	var err error
	c.outboxWriterInit.Do(func() {
		c.outboxWriter, err = c.initOutboxWriter()
		if err != nil {
			c.initErrors["outboxWriter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["outboxWriter"]; exists {
		return nil, storedErr
	}
	return c.outboxWriter, nil
}

// initOutboxRepository creates the outbox repository based on the database driver.
func (c *Container) initOutboxRepository() (OutboxStore, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "sqlite":
		return outboxRepository.NewSQLiteOutboxRepository(db), nil
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOutboxWriter creates the outbox writer use case.
func (c *Container) initOutboxWriter() (*outboxUsecase.Writer, error) {
	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for outbox writer: %w", err)
	}

	return outboxUsecase.NewWriter(outboxRepo, c.Logger()), nil
}
