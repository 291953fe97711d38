package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// SQLiteSessionRepository handles sync session persistence for SQLite.
type SQLiteSessionRepository struct {
	db *sql.DB
}

// NewSQLiteSessionRepository creates a new SQLiteSessionRepository.
func NewSQLiteSessionRepository(db *sql.DB) *SQLiteSessionRepository {
	return &SQLiteSessionRepository{db: db}
}

const sqliteSessionColumns = `id, started_at, finished_at, total_queued, total_synced, total_failed, status`

// Create inserts a new running session and fills in its generated ID.
func (r *SQLiteSessionRepository) Create(ctx context.Context, session *domain.SyncSession) error {
	querier := database.GetTx(ctx, r.db)

	if session.StartedAt.IsZero() {
		session.StartedAt = time.Now().UTC()
	}
	if session.Status == "" {
		session.Status = domain.SessionRunning
	}

	query := `INSERT INTO sync_sessions (started_at, total_queued, total_synced, total_failed, status)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, session.StartedAt, session.TotalQueued,
		session.TotalSynced, session.TotalFailed, session.Status)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	session.ID = id

	return nil
}

// SetTotalQueued records how many entries the session snapshot captured.
func (r *SQLiteSessionRepository) SetTotalQueued(ctx context.Context, id, totalQueued int64) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE sync_sessions SET total_queued = ? WHERE id = ?`, totalQueued, id)
	return err
}

// Finalize closes a session with its counters and terminal status.
func (r *SQLiteSessionRepository) Finalize(ctx context.Context, id int64, synced, failed int64, status domain.SessionStatus, finishedAt time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE sync_sessions SET finished_at = ?, total_synced = ?, total_failed = ?, status = ? WHERE id = ?`,
		finishedAt, synced, failed, status, id)
	return err
}

// List retrieves sessions newest first.
func (r *SQLiteSessionRepository) List(ctx context.Context, limit int) ([]*domain.SyncSession, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT `+sqliteSessionColumns+` FROM sync_sessions ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanSessions(rows)
}

// Prune keeps only the most recently started sessions.
func (r *SQLiteSessionRepository) Prune(ctx context.Context, keep int) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM sync_sessions
			  WHERE id NOT IN (
			      SELECT id FROM sync_sessions ORDER BY started_at DESC, id DESC LIMIT ?
			  )`

	_, err := querier.ExecContext(ctx, query, keep)
	return err
}

// DeleteFinished removes every session that is not running.
func (r *SQLiteSessionRepository) DeleteFinished(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM sync_sessions WHERE status != 'running'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// scanSessions reads sync sessions from a result set.
func scanSessions(rows *sql.Rows) ([]*domain.SyncSession, error) {
	var sessions []*domain.SyncSession
	for rows.Next() {
		var (
			session    domain.SyncSession
			finishedAt sql.NullTime
		)

		err := rows.Scan(&session.ID, &session.StartedAt, &finishedAt, &session.TotalQueued,
			&session.TotalSynced, &session.TotalFailed, &session.Status)
		if err != nil {
			return nil, err
		}

		if finishedAt.Valid {
			session.FinishedAt = &finishedAt.Time
		}

		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
