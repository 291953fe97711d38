package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupSQLiteDB(t *testing.T) {
	db := SetupSQLiteDB(t)
	defer TeardownDB(t, db)

	// migrations must have created the sync tables
	for _, table := range []string{"outbox_entries", "sync_sessions", "remote_configs", "accounts", "customers"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestSetupSQLiteDBIsolation(t *testing.T) {
	db1 := SetupSQLiteDB(t)
	defer TeardownDB(t, db1)
	db2 := SetupSQLiteDB(t)
	defer TeardownDB(t, db2)

	_, err := db1.Exec("INSERT INTO customers (name) VALUES ('Acme')")
	require.NoError(t, err)

	var count int
	require.NoError(t, db2.QueryRow("SELECT COUNT(*) FROM customers").Scan(&count))
	assert.Equal(t, 0, count)
}
