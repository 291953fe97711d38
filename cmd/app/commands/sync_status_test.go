package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
)

func TestRunSyncStatus(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	require.NoError(t, f.outbox.Create(ctx, &outboxdomain.Entry{
		TableName: "customers",
		Operation: outboxdomain.OperationInsert,
		RecordID:  1,
		Payload:   `{"id":1}`,
		Status:    outboxdomain.StatusPending,
	}))

	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSyncStatus(ctx, f.admin, f.logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "pending: 1")
	})

	t.Run("json-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSyncStatus(ctx, f.admin, f.logger, &out, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"pending": 1`)
		require.Contains(t, out.String(), `"failed": 0`)
	})
}

func TestRunSyncQueue(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	require.NoError(t, f.outbox.Create(ctx, &outboxdomain.Entry{
		TableName: "orders",
		Operation: outboxdomain.OperationUpdate,
		RecordID:  7,
		Payload:   `{"id":7,"total":120}`,
		Status:    outboxdomain.StatusPending,
	}))

	t.Run("text-output", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSyncQueue(ctx, f.admin, f.logger, &out, "", 20, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "UPDATE orders record=7")
	})

	t.Run("json-hides-payload", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSyncQueue(ctx, f.admin, f.logger, &out, "pending", 20, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"table_name": "orders"`)
		require.NotContains(t, out.String(), "total")
	})

	t.Run("invalid-status", func(t *testing.T) {
		err := RunSyncQueue(ctx, f.admin, f.logger, &bytes.Buffer{}, "bogus", 20, "text")
		require.Error(t, err)
	})

	t.Run("empty-queue-filter", func(t *testing.T) {
		var out bytes.Buffer
		err := RunSyncQueue(ctx, f.admin, f.logger, &out, "failed", 20, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Outbox queue is empty")
	})
}

func TestRunSyncSessionsEmpty(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	var out bytes.Buffer
	err := RunSyncSessions(ctx, f.admin, f.logger, &out, 10, "text")

	require.NoError(t, err)
	require.Contains(t, out.String(), "No sync sessions recorded")
}

func TestRunRetryFailed(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	var out bytes.Buffer
	err := RunRetryFailed(ctx, f.admin, f.logger, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Requeued 0 failed entries")
}
