package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteMemoryDSN() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestConnectSQLite(t *testing.T) {
	db, err := Connect(Config{
		Driver:           "sqlite",
		ConnectionString: sqliteMemoryDSN(),
	})
	require.NoError(t, err)
	defer db.Close()

	// sqlite is always serialized through a single connection
	stats := db.Stats()
	assert.Equal(t, 1, stats.MaxOpenConnections)

	_, err = db.ExecContext(context.Background(), "CREATE TABLE t (id INTEGER PRIMARY KEY)")
	assert.NoError(t, err)
}

func TestConnectInvalidDriver(t *testing.T) {
	_, err := Connect(Config{
		Driver:           "not-a-driver",
		ConnectionString: "whatever",
	})
	assert.Error(t, err)
}
