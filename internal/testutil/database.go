// Package testutil provides testing utilities backed by real in-memory
// SQLite databases with the project migrations applied.
//
// Usage:
//
//	db := testutil.SetupSQLiteDB(t)
//	defer testutil.TeardownDB(t, db)
//
// Migrations are discovered by walking up from the current working directory
// until a "migrations/sqlite" directory is found.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// SetupSQLiteDB opens a uniquely named shared in-memory SQLite database and
// applies all migrations. Each call yields an isolated database.
func SetupSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err, "failed to open sqlite database")

	db.SetMaxOpenConns(1)
	require.NoError(t, db.Ping(), "failed to ping sqlite database")

	applyMigrations(t, db)
	return db
}

// TeardownDB closes the database connection.
func TeardownDB(t *testing.T, db *sql.DB) {
	t.Helper()
	require.NoError(t, db.Close())
}

// applyMigrations runs all up migrations against the given database.
func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()

	driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	require.NoError(t, err, "failed to create migrate driver")

	path := findMigrationsDir(t, "sqlite")
	m, err := migrate.NewWithDatabaseInstance("file://"+path, "sqlite", driver)
	require.NoError(t, err, "failed to create migrate instance")

	// m.Close() would close the test's database handle, so it is skipped.
	require.NoError(t, m.Up(), "failed to apply migrations")
}

// findMigrationsDir walks up from the working directory until it finds
// migrations/<dbType>.
func findMigrationsDir(t *testing.T, dbType string) string {
	t.Helper()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	dir := cwd
	for {
		candidate := filepath.Join(dir, "migrations", dbType)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("migrations/%s directory not found above %s", dbType, cwd)
		}
		dir = parent
	}
}
