// Package usecase implements the synchronization engine's business logic:
// configuring the remote endpoint, running sync sessions, the background
// dispatcher, queue administration, and secret-gated full resync.
package usecase

import (
	"context"
	"time"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// OutboxRepository defines the outbox operations the sync engine needs.
type OutboxRepository interface {
	ListEligible(ctx context.Context, maxRetries int) ([]*outboxdomain.Entry, error)
	MarkSyncing(ctx context.Context, id int64) error
	MarkSynced(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, message string) error
	CountByStatus(ctx context.Context) (*outboxdomain.Stats, error)
	List(ctx context.Context, status *outboxdomain.Status, limit int) ([]*outboxdomain.Entry, error)
	ResetFailed(ctx context.Context) (int64, error)
	ResetOrphaned(ctx context.Context) (int64, error)
	DeleteSynced(ctx context.Context) (int64, error)
	DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteUndelivered(ctx context.Context) error
	PruneSynced(ctx context.Context, keep int) error
}

// ConfigRepository defines remote configuration persistence operations.
type ConfigRepository interface {
	GetActive(ctx context.Context) (*domain.RemoteConfig, error)
	DeactivateAll(ctx context.Context) error
	Create(ctx context.Context, config *domain.RemoteConfig) error
	UpdateInterval(ctx context.Context, seconds int) error
	SetSyncEnabled(ctx context.Context, enabled bool) error
}

// SessionRepository defines sync session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.SyncSession) error
	SetTotalQueued(ctx context.Context, id, totalQueued int64) error
	Finalize(ctx context.Context, id int64, synced, failed int64, status domain.SessionStatus, finishedAt time.Time) error
	List(ctx context.Context, limit int) ([]*domain.SyncSession, error)
	Prune(ctx context.Context, keep int) error
	DeleteFinished(ctx context.Context) (int64, error)
}

// SnapshotRepository defines the business-table operations used by full
// resync and delivery bookkeeping.
type SnapshotRepository interface {
	Snapshots(ctx context.Context, table string) ([]*domain.Snapshot, error)
	MarkAllUnsynced(ctx context.Context, table string) error
	MarkRecordSynced(ctx context.Context, table string, recordID int64) error
}

// SecretVerifier checks a master secret against the stored hash.
type SecretVerifier interface {
	VerifyMasterSecret(ctx context.Context, secret string) error
}
