package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bkjonathan/sine-shin/internal/metrics"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/service"
)

// Runner drains the outbox against the remote endpoint, one session at a
// time. Sessions are single-flight: a second caller gets ErrSyncInProgress
// instead of queueing behind the first.
type Runner struct {
	outbox        OutboxRepository
	sessions      SessionRepository
	configs       ConfigRepository
	snapshots     SnapshotRepository
	pusher        service.Pusher
	syncMetrics   metrics.SyncMetrics
	logger        *slog.Logger
	maxRetries    int
	retentionKeep int

	mu sync.Mutex
}

// NewRunner creates a new Runner.
func NewRunner(
	outbox OutboxRepository,
	sessions SessionRepository,
	configs ConfigRepository,
	snapshots SnapshotRepository,
	pusher service.Pusher,
	syncMetrics metrics.SyncMetrics,
	logger *slog.Logger,
	maxRetries int,
	retentionKeep int,
) *Runner {
	return &Runner{
		outbox:        outbox,
		sessions:      sessions,
		configs:       configs,
		snapshots:     snapshots,
		pusher:        pusher,
		syncMetrics:   syncMetrics,
		logger:        logger,
		maxRetries:    maxRetries,
		retentionKeep: retentionKeep,
	}
}

// RunSession snapshots the eligible entries, delivers them oldest first, and
// records the outcome as a sync session. Entries that become eligible after
// the snapshot wait for the next session.
func (r *Runner) RunSession(ctx context.Context) (*domain.SyncSession, error) {
	if !r.mu.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer r.mu.Unlock()

	config, err := r.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := r.outbox.ListEligible(ctx, r.maxRetries)
	if err != nil {
		return nil, err
	}

	session := &domain.SyncSession{}
	if err := r.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	session.TotalQueued = int64(len(entries))
	if err := r.sessions.SetTotalQueued(ctx, session.ID, session.TotalQueued); err != nil {
		return nil, err
	}

	r.logger.Info("sync session started",
		slog.Int64("session_id", session.ID),
		slog.Int64("total_queued", session.TotalQueued),
	)

	var synced, failed int64
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}

		if !entry.Operation.Valid() {
			// corrupt entry, skip without touching the counters
			r.logger.Warn("skipping outbox entry with unknown operation",
				slog.Int64("entry_id", entry.ID),
				slog.String("operation", string(entry.Operation)),
			)
			continue
		}

		if err := r.outbox.MarkSyncing(ctx, entry.ID); err != nil {
			return nil, err
		}

		if err := r.pusher.Push(ctx, config, entry); err != nil {
			failed++
			if markErr := r.outbox.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				return nil, markErr
			}
			r.syncMetrics.RecordPush(ctx, entry.TableName, string(entry.Operation), "failed")
			r.logger.Warn("outbox entry delivery failed",
				slog.Int64("entry_id", entry.ID),
				slog.String("table", entry.TableName),
				slog.Any("error", err),
			)
			continue
		}

		synced++
		if err := r.outbox.MarkSynced(ctx, entry.ID, time.Now().UTC()); err != nil {
			return nil, err
		}
		if err := r.snapshots.MarkRecordSynced(ctx, entry.TableName, entry.RecordID); err != nil {
			r.logger.Warn("failed to flag source record as synced",
				slog.Int64("entry_id", entry.ID),
				slog.String("table", entry.TableName),
				slog.Any("error", err),
			)
		}
		r.syncMetrics.RecordPush(ctx, entry.TableName, string(entry.Operation), "synced")
	}

	finishedAt := time.Now().UTC()
	status := domain.Outcome(synced, failed)
	if err := r.sessions.Finalize(ctx, session.ID, synced, failed, status, finishedAt); err != nil {
		return nil, err
	}

	session.TotalSynced = synced
	session.TotalFailed = failed
	session.Status = status
	session.FinishedAt = &finishedAt

	r.syncMetrics.RecordSession(ctx, string(status), finishedAt.Sub(session.StartedAt))
	r.logger.Info("sync session finished",
		slog.Int64("session_id", session.ID),
		slog.Int64("total_synced", synced),
		slog.Int64("total_failed", failed),
		slog.String("status", string(status)),
	)

	r.sweepRetention(ctx)

	return session, nil
}

// Running reports whether a session currently holds the single-flight lock.
func (r *Runner) Running() bool {
	if r.mu.TryLock() {
		r.mu.Unlock()
		return false
	}
	return true
}

// sweepRetention trims delivered entries and old sessions down to the
// configured retention. Failures here are logged, not fatal: retention is
// best effort and the next session retries it.
func (r *Runner) sweepRetention(ctx context.Context) {
	if err := r.outbox.PruneSynced(ctx, r.retentionKeep); err != nil {
		r.logger.Warn("failed to prune delivered outbox entries", slog.Any("error", err))
	}
	if err := r.sessions.Prune(ctx, r.retentionKeep); err != nil {
		r.logger.Warn("failed to prune sync sessions", slog.Any("error", err))
	}
}
