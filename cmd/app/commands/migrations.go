package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations executes database migrations based on the configured driver.
// Determines migration path from the driver (sqlite or postgresql) and
// applies all pending migrations. Returns nil if no migrations to apply.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations",
		slog.String("driver", driver),
	)

	migrationsPath := "file://migrations/postgresql"
	if driver == "sqlite" {
		migrationsPath = "file://migrations/sqlite"
	}

	m, err := migrate.New(migrationsPath, migrateDatabaseURL(driver, connectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}

// migrateDatabaseURL converts a database/sql connection string into the URL
// form golang-migrate expects. Postgres strings are already URLs; sqlite
// strings need the scheme prefix and the optional file: stripped.
func migrateDatabaseURL(driver, connectionString string) string {
	if driver != "sqlite" {
		return connectionString
	}
	if strings.HasPrefix(connectionString, "sqlite://") {
		return connectionString
	}
	return "sqlite://" + strings.TrimPrefix(connectionString, "file:")
}
