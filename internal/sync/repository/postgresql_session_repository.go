package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// PostgreSQLSessionRepository handles sync session persistence for PostgreSQL.
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// NewPostgreSQLSessionRepository creates a new PostgreSQLSessionRepository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}

const pgSessionColumns = `id, started_at, finished_at, total_queued, total_synced, total_failed, status`

// Create inserts a new running session and fills in its generated ID.
func (r *PostgreSQLSessionRepository) Create(ctx context.Context, session *domain.SyncSession) error {
	querier := database.GetTx(ctx, r.db)

	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.Status == "" {
		session.Status = domain.SessionRunning
	}

	query := `INSERT INTO sync_sessions (started_at, total_queued, total_synced, total_failed, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`

	return querier.QueryRowContext(ctx, query, session.StartedAt, session.TotalQueued,
		session.TotalSynced, session.TotalFailed, session.Status).Scan(&session.ID)
}

// SetTotalQueued records how many entries the session snapshot captured.
func (r *PostgreSQLSessionRepository) SetTotalQueued(ctx context.Context, id, totalQueued int64) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE sync_sessions SET total_queued = $1 WHERE id = $2`, totalQueued, id)
	return err
}

// Finalize closes a session with its counters and terminal status.
func (r *PostgreSQLSessionRepository) Finalize(ctx context.Context, id int64, synced, failed int64, status domain.SessionStatus, finishedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE sync_sessions SET finished_at = $1, total_synced = $2, total_failed = $3, status = $4 WHERE id = $5`,
		finishedAt, synced, failed, status, id)
	return err
}

// List retrieves sessions newest first.
func (r *PostgreSQLSessionRepository) List(ctx context.Context, limit int) ([]*domain.SyncSession, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT `+pgSessionColumns+` FROM sync_sessions ORDER BY started_at DESC, id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanSessions(rows)
}

// Prune keeps only the most recently started sessions.
func (r *PostgreSQLSessionRepository) Prune(ctx context.Context, keep int) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM sync_sessions
			  WHERE id NOT IN (
			      SELECT id FROM sync_sessions ORDER BY started_at DESC, id DESC LIMIT $1
			  )`

	_, err := querier.ExecContext(ctx, query, keep)
	return err
}

// DeleteFinished removes every session that is not running.
func (r *PostgreSQLSessionRepository) DeleteFinished(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM sync_sessions WHERE status != 'running'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
