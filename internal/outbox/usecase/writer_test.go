package usecase

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/outbox/repository"
	"github.com/bkjonathan/sine-shin/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWriterEnqueue(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := repository.NewSQLiteOutboxRepository(db)
	writer := NewWriter(repo, slog.Default())
	ctx := context.Background()

	writer.Enqueue(ctx, "customers", domain.OperationInsert, 7, map[string]any{"id": 7, "name": "Acme"})

	entries, err := repo.List(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "customers", entries[0].TableName)
	assert.Equal(t, domain.OperationInsert, entries[0].Operation)
	assert.Equal(t, int64(7), entries[0].RecordID)
	assert.Equal(t, domain.StatusPending, entries[0].Status)
	assert.JSONEq(t, `{"id":7,"name":"Acme"}`, entries[0].Payload)
	assert.Zero(t, entries[0].RetryCount)
}

func TestWriterEnqueueInvalidOperation(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := repository.NewSQLiteOutboxRepository(db)
	writer := NewWriter(repo, slog.Default())
	ctx := context.Background()

	writer.Enqueue(ctx, "customers", domain.Operation("UPSERT"), 1, map[string]any{"id": 1})

	entries, err := repo.List(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterEnqueueUnmarshalablePayload(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	defer testutil.TeardownDB(t, db)

	repo := repository.NewSQLiteOutboxRepository(db)
	writer := NewWriter(repo, slog.Default())
	ctx := context.Background()

	// channels cannot be marshaled; the writer must swallow the error
	writer.Enqueue(ctx, "orders", domain.OperationUpdate, 2, map[string]any{"ch": make(chan int)})

	entries, err := repo.List(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriterEnqueueSwallowsRepositoryError(t *testing.T) {
	db := testutil.SetupSQLiteDB(t)
	repo := repository.NewSQLiteOutboxRepository(db)
	writer := NewWriter(repo, slog.Default())

	// a closed database makes Create fail; Enqueue must not panic
	testutil.TeardownDB(t, db)

	assert.NotPanics(t, func() {
		writer.Enqueue(context.Background(), "expenses", domain.OperationDelete, 3, map[string]any{"id": 3})
	})
}
