package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// AdminUseCase exposes queue inspection and maintenance operations.
type AdminUseCase struct {
	txManager database.TxManager
	outbox    OutboxRepository
	sessions  SessionRepository
	logger    *slog.Logger
}

// NewAdminUseCase creates a new AdminUseCase.
func NewAdminUseCase(txManager database.TxManager, outbox OutboxRepository, sessions SessionRepository, logger *slog.Logger) *AdminUseCase {
	return &AdminUseCase{
		txManager: txManager,
		outbox:    outbox,
		sessions:  sessions,
		logger:    logger,
	}
}

// Stats returns outbox entry counts grouped by status.
func (uc *AdminUseCase) Stats(ctx context.Context) (*outboxdomain.Stats, error) {
	return uc.outbox.CountByStatus(ctx)
}

// Sessions returns recent sync sessions, newest first.
func (uc *AdminUseCase) Sessions(ctx context.Context, limit int) ([]*domain.SyncSession, error) {
	if limit <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be positive")
	}
	return uc.sessions.List(ctx, limit)
}

// Queue returns outbox entries for inspection, newest first, optionally
// filtered by status.
func (uc *AdminUseCase) Queue(ctx context.Context, status *outboxdomain.Status, limit int) ([]*outboxdomain.Entry, error) {
	if limit <= 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "limit must be positive")
	}
	if status != nil && !status.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown status "+string(*status))
	}
	return uc.outbox.List(ctx, status, limit)
}

// RetryFailed requeues every failed entry with a fresh retry budget.
func (uc *AdminUseCase) RetryFailed(ctx context.Context) (int64, error) {
	count, err := uc.outbox.ResetFailed(ctx)
	if err != nil {
		return 0, err
	}
	uc.logger.Info("requeued failed outbox entries", slog.Int64("count", count))
	return count, nil
}

// ClearSynced removes delivered entries. With olderThanDays zero everything
// delivered is removed; otherwise only entries delivered before the cutoff.
func (uc *AdminUseCase) ClearSynced(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "days must not be negative")
	}
	if olderThanDays == 0 {
		return uc.outbox.DeleteSynced(ctx)
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	return uc.outbox.DeleteSyncedOlderThan(ctx, cutoff)
}

// CleanAllResult reports what a CleanAll pass removed.
type CleanAllResult struct {
	EntriesDeleted  int64 `json:"entries_deleted"`
	SessionsDeleted int64 `json:"sessions_deleted"`
}

// CleanAll removes delivered entries and finished sessions in one
// transaction, so history is either fully trimmed or untouched.
func (uc *AdminUseCase) CleanAll(ctx context.Context) (*CleanAllResult, error) {
	var result CleanAllResult

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		entries, err := uc.outbox.DeleteSynced(ctx)
		if err != nil {
			return err
		}
		result.EntriesDeleted = entries

		sessions, err := uc.sessions.DeleteFinished(ctx)
		if err != nil {
			return err
		}
		result.SessionsDeleted = sessions

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("cleaned sync history",
		slog.Int64("entries_deleted", result.EntriesDeleted),
		slog.Int64("sessions_deleted", result.SessionsDeleted),
	)

	return &result, nil
}
