package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/bkjonathan/sine-shin/internal/database"
	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// EntryWriter appends outbox entries. Unlike the fire-and-forget writer used
// after business mutations, resync needs creation failures surfaced so the
// whole rebuild can roll back.
type EntryWriter interface {
	Create(ctx context.Context, entry *outboxdomain.Entry) error
}

// ResyncUseCase rebuilds the outbox from full table snapshots. Both entry
// points are gated on the master secret because they either discard queued
// work or swap the credentials every future push will use.
type ResyncUseCase struct {
	txManager database.TxManager
	secrets   SecretVerifier
	outbox    OutboxRepository
	entries   EntryWriter
	snapshots SnapshotRepository
	config    *ConfigUseCase
	runner    *Runner
	logger    *slog.Logger

	wg sync.WaitGroup
}

// NewResyncUseCase creates a new ResyncUseCase.
func NewResyncUseCase(
	txManager database.TxManager,
	secrets SecretVerifier,
	outbox OutboxRepository,
	entries EntryWriter,
	snapshots SnapshotRepository,
	config *ConfigUseCase,
	runner *Runner,
	logger *slog.Logger,
) *ResyncUseCase {
	return &ResyncUseCase{
		txManager: txManager,
		secrets:   secrets,
		outbox:    outbox,
		entries:   entries,
		snapshots: snapshots,
		config:    config,
		runner:    runner,
		logger:    logger,
	}
}

// FullResync drops undelivered entries and re-enqueues every live row of
// every replicated table as an insert. Inserts upsert on the remote, so
// replaying rows that already arrived is safe. Runs in one transaction: the
// queue is never left half-rebuilt. Once the rebuild commits, a sync session
// starts in the background so delivery does not wait for the dispatcher's
// next interval.
func (uc *ResyncUseCase) FullResync(ctx context.Context, masterSecret string) (int64, error) {
	if err := uc.secrets.VerifyMasterSecret(ctx, masterSecret); err != nil {
		return 0, err
	}

	var queued int64
	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.outbox.DeleteUndelivered(ctx); err != nil {
			return err
		}

		for _, table := range domain.SyncedTables {
			if err := uc.snapshots.MarkAllUnsynced(ctx, table); err != nil {
				return err
			}

			snapshots, err := uc.snapshots.Snapshots(ctx, table)
			if err != nil {
				return err
			}

			for _, snapshot := range snapshots {
				entry := &outboxdomain.Entry{
					TableName: table,
					Operation: outboxdomain.OperationInsert,
					RecordID:  snapshot.RecordID,
					Payload:   snapshot.Payload,
					Status:    outboxdomain.StatusPending,
				}
				if err := uc.entries.Create(ctx, entry); err != nil {
					return err
				}
				queued++
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.logger.Info("full resync queued", slog.Int64("entries", queued))
	uc.startSession()
	return queued, nil
}

// startSession drains the rebuilt queue in the background. The runner's
// single-flight lock coalesces with any session the dispatcher already
// started; errors here never fail the resync that queued the work.
func (uc *ResyncUseCase) startSession() {
	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()

		session, err := uc.runner.RunSession(context.Background())
		if err != nil {
			if apperrors.Is(err, domain.ErrSyncInProgress) || apperrors.Is(err, domain.ErrNoActiveConfig) {
				uc.logger.Info("resync delivery deferred", slog.Any("reason", err))
				return
			}
			uc.logger.Warn("resync-triggered session failed", slog.Any("error", err))
			return
		}

		uc.logger.Info("resync-triggered session finished",
			slog.Int64("session_id", session.ID),
			slog.Int64("total_synced", session.TotalSynced),
			slog.Int64("total_failed", session.TotalFailed),
		)
	}()
}

// Wait blocks until any session started by a resync has finished. Called on
// shutdown so an in-flight rebuild completes its first delivery pass.
func (uc *ResyncUseCase) Wait() {
	uc.wg.Wait()
}

// RotateCredentials swaps the active remote configuration and queues a full
// resync so the new backend receives the complete dataset.
func (uc *ResyncUseCase) RotateCredentials(ctx context.Context, masterSecret string, input SaveConfigInput) (*domain.RemoteConfig, int64, error) {
	if err := uc.secrets.VerifyMasterSecret(ctx, masterSecret); err != nil {
		return nil, 0, err
	}

	config, err := uc.config.Save(ctx, input)
	if err != nil {
		return nil, 0, err
	}

	queued, err := uc.FullResync(ctx, masterSecret)
	if err != nil {
		return nil, 0, err
	}

	uc.logger.Info("remote credentials rotated",
		slog.String("endpoint_url", config.EndpointURL),
		slog.Int64("entries_queued", queued),
	)

	return config, queued, nil
}
