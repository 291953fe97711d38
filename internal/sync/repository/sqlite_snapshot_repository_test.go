package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/testutil"
)

func TestSQLiteSnapshotRepositorySnapshots(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewSQLiteSnapshotRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO customers (name, phone, city) VALUES ('Aye Aye', '09790000001', 'Yangon')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO customers (name, deleted_at) VALUES ('Gone', '2026-01-01 00:00:00')`)
	require.NoError(t, err)

	snapshots, err := repo.Snapshots(ctx, "customers")
	require.NoError(t, err)
	require.Len(t, snapshots, 1, "soft-deleted rows are excluded")

	var row map[string]any
	require.NoError(t, json.Unmarshal([]byte(snapshots[0].Payload), &row))
	assert.Equal(t, "Aye Aye", row["name"])
	assert.Equal(t, "Yangon", row["city"])
	assert.Contains(t, row, "id")
	assert.NotContains(t, row, "synced", "local bookkeeping column stays local")
}

func TestSQLiteSnapshotRepositorySnapshotsUnknownTable(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewSQLiteSnapshotRepository(db)

	_, err := repo.Snapshots(context.Background(), "accounts; DROP TABLE customers")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestSQLiteSnapshotRepositoryMarkUnsyncedAndSynced(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewSQLiteSnapshotRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO expenses (title, amount, synced) VALUES ('Rent', 500, 1)`)
	require.NoError(t, err)

	require.NoError(t, repo.MarkAllUnsynced(ctx, "expenses"))
	var synced int
	require.NoError(t, db.QueryRow(`SELECT synced FROM expenses`).Scan(&synced))
	assert.Equal(t, 0, synced)

	var id int64
	require.NoError(t, db.QueryRow(`SELECT id FROM expenses`).Scan(&id))
	require.NoError(t, repo.MarkRecordSynced(ctx, "expenses", id))
	require.NoError(t, db.QueryRow(`SELECT synced FROM expenses`).Scan(&synced))
	assert.Equal(t, 1, synced)
}
