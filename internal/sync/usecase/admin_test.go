package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkjonathan/sine-shin/internal/errors"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

func TestAdminStatsAndQueue(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	e.enqueue(t, "customers", outboxdomain.OperationInsert, 1, `{"id":1}`)
	failed := e.enqueue(t, "orders", outboxdomain.OperationInsert, 2, `{"id":2}`)
	require.NoError(t, e.outbox.MarkFailed(ctx, failed.ID, "boom"))

	stats, err := e.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Failed)

	status := outboxdomain.StatusFailed
	entries, err := e.admin.Queue(ctx, &status, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, failed.ID, entries[0].ID)

	_, err = e.admin.Queue(ctx, nil, 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))

	bogus := outboxdomain.Status("bogus")
	_, err = e.admin.Queue(ctx, &bogus, 10)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestAdminRetryFailed(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	entry := e.enqueue(t, "customers", outboxdomain.OperationInsert, 1, `{"id":1}`)
	for i := 0; i < 5; i++ {
		require.NoError(t, e.outbox.MarkFailed(ctx, entry.ID, "boom"))
	}

	count, err := e.admin.RetryFailed(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stats, err := e.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(0), stats.Failed)
}

func TestAdminClearSynced(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	old := e.enqueue(t, "customers", outboxdomain.OperationInsert, 1, `{"id":1}`)
	require.NoError(t, e.outbox.MarkSynced(ctx, old.ID, time.Now().UTC().Add(-72*time.Hour)))
	recent := e.enqueue(t, "orders", outboxdomain.OperationInsert, 2, `{"id":2}`)
	require.NoError(t, e.outbox.MarkSynced(ctx, recent.ID, time.Now().UTC()))

	count, err := e.admin.ClearSynced(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	stats, err := e.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Synced, "recently delivered entry survives the cutoff")

	count, err = e.admin.ClearSynced(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = e.admin.ClearSynced(ctx, -1)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestAdminCleanAll(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	synced := e.enqueue(t, "customers", outboxdomain.OperationInsert, 1, `{"id":1}`)
	require.NoError(t, e.outbox.MarkSynced(ctx, synced.ID, time.Now().UTC()))
	e.enqueue(t, "orders", outboxdomain.OperationInsert, 2, `{"id":2}`)

	session := &domain.SyncSession{}
	require.NoError(t, e.sessions.Create(ctx, session))
	require.NoError(t, e.sessions.Finalize(ctx, session.ID, 1, 0, domain.SessionCompleted, time.Now().UTC()))

	result, err := e.admin.CleanAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.EntriesDeleted)
	assert.Equal(t, int64(1), result.SessionsDeleted)

	stats, err := e.admin.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending, "undelivered work survives cleaning")
	assert.Equal(t, int64(0), stats.Synced)
}

func TestAdminSessions(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		session := &domain.SyncSession{StartedAt: time.Now().UTC().Add(time.Duration(i) * time.Second)}
		require.NoError(t, e.sessions.Create(ctx, session))
	}

	sessions, err := e.admin.Sessions(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	_, err = e.admin.Sessions(ctx, -1)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}
