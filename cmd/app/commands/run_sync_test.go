package commands

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
)

func TestRunSync(t *testing.T) {
	ctx := context.Background()

	t.Run("no-config", func(t *testing.T) {
		f := newCommandFixture(t)
		err := RunSync(ctx, f.runner, f.logger, &bytes.Buffer{}, "text")
		require.Error(t, err)
	})

	t.Run("delivers-queue", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		f := newCommandFixture(t)
		require.NoError(t, RunSaveConfig(ctx, f.config, f.logger, &bytes.Buffer{},
			server.URL, "anon-key-value", "service-key-value", "text"))

		require.NoError(t, f.outbox.Create(ctx, &outboxdomain.Entry{
			TableName: "customers",
			Operation: outboxdomain.OperationInsert,
			RecordID:  1,
			Payload:   `{"id":1}`,
			Status:    outboxdomain.StatusPending,
		}))

		var out bytes.Buffer
		err := RunSync(ctx, f.runner, f.logger, &out, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), `status "completed": 1 synced, 0 failed of 1 queued`)
	})
}
