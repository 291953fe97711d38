package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountusecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

func setMasterSecret(t *testing.T, e *engine, secret string) {
	t.Helper()
	ctx := context.Background()
	_, err := e.accounts.RegisterOwner(ctx, accountusecase.RegisterOwnerInput{Name: "Owner", Password: "correct-horse"})
	require.NoError(t, err)
	require.NoError(t, e.accounts.SetMasterSecret(ctx, accountusecase.SetMasterSecretInput{
		Password:     "correct-horse",
		MasterSecret: secret,
	}))
}

func TestFullResync(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()
	setMasterSecret(t, e, "shop-secret")

	_, err := e.db.Exec(`INSERT INTO customers (name) VALUES ('Aye Aye'), ('Zaw Zaw')`)
	require.NoError(t, err)
	_, err = e.db.Exec(`INSERT INTO expenses (title, amount, synced) VALUES ('Rent', 500, 1)`)
	require.NoError(t, err)

	// stale undelivered work gets replaced by the rebuild
	stale := e.enqueue(t, "customers", outboxdomain.OperationUpdate, 1, `{"id":1}`)
	delivered := e.enqueue(t, "orders", outboxdomain.OperationInsert, 9, `{"id":9}`)
	require.NoError(t, e.outbox.MarkSynced(ctx, delivered.ID, time.Now().UTC()))

	queued, err := e.resync.FullResync(ctx, "shop-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(3), queued)

	entries, err := e.outbox.List(ctx, nil, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "three snapshots plus the delivered entry")
	for _, entry := range entries {
		assert.NotEqual(t, stale.ID, entry.ID)
		if entry.Status == outboxdomain.StatusPending {
			assert.Equal(t, outboxdomain.OperationInsert, entry.Operation, "snapshots replay as upserting inserts")
		}
	}

	var synced int
	require.NoError(t, e.db.QueryRow(`SELECT synced FROM expenses`).Scan(&synced))
	assert.Equal(t, 0, synced, "every row is flagged for redelivery")
}

func TestFullResyncDeliversImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	e := newEngine(t, server.URL)
	ctx := context.Background()
	setMasterSecret(t, e, "shop-secret")

	_, err := e.db.Exec(`INSERT INTO customers (name) VALUES ('Aye Aye')`)
	require.NoError(t, err)

	queued, err := e.resync.FullResync(ctx, "shop-secret")
	require.NoError(t, err)
	require.Equal(t, int64(1), queued)

	// delivery starts without waiting for the dispatcher
	e.resync.Wait()

	stats, err := e.outbox.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Synced)
	assert.Equal(t, int64(0), stats.Pending)

	sessions, err := e.sessions.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, domain.SessionCompleted, sessions[0].Status)
	assert.Equal(t, int64(1), sessions[0].TotalSynced)
}

func TestFullResyncWrongSecret(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()
	setMasterSecret(t, e, "shop-secret")

	_, err := e.db.Exec(`INSERT INTO customers (name) VALUES ('Aye Aye')`)
	require.NoError(t, err)
	e.enqueue(t, "customers", outboxdomain.OperationUpdate, 1, `{"id":1}`)

	_, err = e.resync.FullResync(ctx, "not-the-secret")
	require.ErrorIs(t, err, domain.ErrInvalidMasterSecret)

	stats, err := e.outbox.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Pending, "a rejected resync changes nothing")
}

func TestFullResyncWithoutSecretConfigured(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	_, err := e.accounts.RegisterOwner(ctx, accountusecase.RegisterOwnerInput{Name: "Owner", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = e.resync.FullResync(ctx, "anything")
	require.Error(t, err)
}

func TestRotateCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer new-service", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	e := newEngine(t, "")
	ctx := context.Background()
	setMasterSecret(t, e, "shop-secret")

	_, err := e.config.Save(ctx, SaveConfigInput{
		EndpointURL: "https://old.supabase.co",
		AnonKey:     "old-anon",
		ServiceKey:  "old-service",
	})
	require.NoError(t, err)
	require.NoError(t, e.config.UpdateInterval(ctx, 90))

	_, err = e.db.Exec(`INSERT INTO customers (name) VALUES ('Aye Aye')`)
	require.NoError(t, err)

	config, queued, err := e.resync.RotateCredentials(ctx, "shop-secret", SaveConfigInput{
		EndpointURL: server.URL,
		AnonKey:     "new-anon",
		ServiceKey:  "new-service",
	})
	require.NoError(t, err)
	assert.Equal(t, server.URL, config.EndpointURL)
	assert.Equal(t, 90, config.SyncIntervalSeconds)
	assert.Equal(t, int64(1), queued)

	got, err := e.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new-service", got.ServiceKey)

	// the rebuilt queue drains against the new backend right away
	e.resync.Wait()
	stats, err := e.outbox.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Synced)
}

func TestRotateCredentialsWrongSecret(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()
	setMasterSecret(t, e, "shop-secret")

	_, err := e.config.Save(ctx, SaveConfigInput{
		EndpointURL: "https://old.supabase.co",
		AnonKey:     "old-anon",
		ServiceKey:  "old-service",
	})
	require.NoError(t, err)

	_, _, err = e.resync.RotateCredentials(ctx, "wrong", SaveConfigInput{
		EndpointURL: "https://new.supabase.co",
		AnonKey:     "new-anon",
		ServiceKey:  "new-service",
	})
	require.ErrorIs(t, err, domain.ErrInvalidMasterSecret)

	got, err := e.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://old.supabase.co", got.EndpointURL, "a rejected rotation changes nothing")
}
