package commands

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	accountRepository "github.com/bkjonathan/sine-shin/internal/account/repository"
	accountUsecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/metrics"
	outboxRepository "github.com/bkjonathan/sine-shin/internal/outbox/repository"
	syncRepository "github.com/bkjonathan/sine-shin/internal/sync/repository"
	syncService "github.com/bkjonathan/sine-shin/internal/sync/service"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
	"github.com/bkjonathan/sine-shin/internal/testutil"
)

// commandFixture assembles the real use case stack on an in-memory database
// so command functions can be exercised end to end.
type commandFixture struct {
	outbox   *outboxRepository.SQLiteOutboxRepository
	runner   *syncUsecase.Runner
	admin    *syncUsecase.AdminUseCase
	config   *syncUsecase.ConfigUseCase
	resync   *syncUsecase.ResyncUseCase
	accounts *accountUsecase.AccountUseCase
	logger   *slog.Logger
}

func newCommandFixture(t *testing.T) *commandFixture {
	t.Helper()

	db := testutil.SetupSQLiteDB(t)
	t.Cleanup(func() { testutil.TeardownDB(t, db) })

	logger := slog.Default()
	txManager := database.NewTxManager(db)
	outbox := outboxRepository.NewSQLiteOutboxRepository(db)
	configs := syncRepository.NewSQLiteConfigRepository(db)
	sessions := syncRepository.NewSQLiteSessionRepository(db)
	snapshots := syncRepository.NewSQLiteSnapshotRepository(db)
	pusher := syncService.NewHTTPPusher(5 * time.Second)

	accounts, err := accountUsecase.NewAccountUseCase(accountRepository.NewSQLiteAccountRepository(db))
	require.NoError(t, err)

	runner := syncUsecase.NewRunner(outbox, sessions, configs, snapshots, pusher, metrics.NewNoOpSyncMetrics(), logger, 5, 100)
	configUseCase := syncUsecase.NewConfigUseCase(txManager, configs, pusher)
	admin := syncUsecase.NewAdminUseCase(txManager, outbox, sessions, logger)
	resync := syncUsecase.NewResyncUseCase(txManager, accounts, outbox, outbox, snapshots, configUseCase, runner, logger)
	t.Cleanup(resync.Wait)

	return &commandFixture{
		outbox:   outbox,
		runner:   runner,
		admin:    admin,
		config:   configUseCase,
		resync:   resync,
		accounts: accounts,
		logger:   logger,
	}
}
