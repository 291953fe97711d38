package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunResync(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	var out bytes.Buffer
	require.NoError(t, RunRegisterOwner(ctx, f.accounts, f.logger, &out, "Thiri", "correct-horse"))
	require.NoError(t, RunSetMasterSecret(ctx, f.accounts, f.logger, &out, "correct-horse", "shop-secret"))

	t.Run("wrong-secret", func(t *testing.T) {
		err := RunResync(ctx, f.resync, f.logger, &bytes.Buffer{}, "wrong")
		require.Error(t, err)
	})

	t.Run("queues-entries", func(t *testing.T) {
		out.Reset()
		err := RunResync(ctx, f.resync, f.logger, &out, "shop-secret")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Full resync queued")
	})
}

func TestRunCleanHistory(t *testing.T) {
	ctx := context.Background()
	f := newCommandFixture(t)

	var out bytes.Buffer
	err := RunCleanHistory(ctx, f.admin, f.logger, &out)

	require.NoError(t, err)
	require.Contains(t, out.String(), "Deleted 0 outbox entries and 0 sync sessions")
}
