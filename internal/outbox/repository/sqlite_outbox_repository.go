// Package repository provides data persistence implementations for outbox entries.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/outbox/domain"
)

// SQLiteOutboxRepository handles outbox entry persistence for SQLite.
type SQLiteOutboxRepository struct {
	db *sql.DB
}

// NewSQLiteOutboxRepository creates a new SQLiteOutboxRepository.
func NewSQLiteOutboxRepository(db *sql.DB) *SQLiteOutboxRepository {
	return &SQLiteOutboxRepository{db: db}
}

const sqliteEntryColumns = `id, table_name, operation, record_id, payload, status, retry_count, error_message, created_at, synced_at`

// Create inserts a new outbox entry and fills in its generated ID.
func (r *SQLiteOutboxRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO outbox_entries (table_name, operation, record_id, payload, status, retry_count, error_message, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, entry.TableName, entry.Operation, entry.RecordID,
		entry.Payload, entry.Status, entry.RetryCount, entry.ErrorMessage, entry.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	entry.ID = id

	return nil
}

// ListEligible retrieves the entries a sync session will drain: pending ones
// plus failed ones still under the retry cap, oldest first to preserve the
// causal order of writes to the same record.
func (r *SQLiteOutboxRepository) ListEligible(ctx context.Context, maxRetries int) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + sqliteEntryColumns + `
			  FROM outbox_entries
			  WHERE status = 'pending' OR (status = 'failed' AND retry_count < ?)
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, maxRetries)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanEntries(rows)
}

// MarkSyncing transitions an entry to the syncing state.
func (r *SQLiteOutboxRepository) MarkSyncing(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE outbox_entries SET status = 'syncing' WHERE id = ?`, id)
	return err
}

// MarkSynced transitions an entry to the synced state and stamps synced_at.
func (r *SQLiteOutboxRepository) MarkSynced(ctx context.Context, id int64, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'synced', synced_at = ?, error_message = NULL WHERE id = ?`, at, id)
	return err
}

// MarkFailed transitions an entry to the failed state, bumping its retry
// counter and recording the delivery error.
func (r *SQLiteOutboxRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'failed', retry_count = retry_count + 1, error_message = ? WHERE id = ?`,
		message, id)
	return err
}

// CountByStatus returns entry counts grouped by status.
func (r *SQLiteOutboxRepository) CountByStatus(ctx context.Context) (*domain.Stats, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM outbox_entries GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanStats(rows)
}

// List retrieves entries for inspection, newest first, optionally filtered
// by status.
func (r *SQLiteOutboxRepository) List(ctx context.Context, status *domain.Status, limit int) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = querier.QueryContext(ctx,
			`SELECT `+sqliteEntryColumns+` FROM outbox_entries WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
			*status, limit)
	} else {
		rows, err = querier.QueryContext(ctx,
			`SELECT `+sqliteEntryColumns+` FROM outbox_entries ORDER BY created_at DESC, id DESC LIMIT ?`,
			limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanEntries(rows)
}

// ResetFailed requeues every failed entry as pending with a clean retry
// counter and error message.
func (r *SQLiteOutboxRepository) ResetFailed(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'pending', retry_count = 0, error_message = NULL WHERE status = 'failed'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ResetOrphaned requeues entries left in the syncing state by an unclean
// shutdown. Runs before the dispatcher's first tick.
func (r *SQLiteOutboxRepository) ResetOrphaned(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'pending' WHERE status = 'syncing'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteSyncedOlderThan removes delivered entries whose synced_at is before
// the cutoff.
func (r *SQLiteOutboxRepository) DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM outbox_entries WHERE status = 'synced' AND synced_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteSynced removes all delivered entries.
func (r *SQLiteOutboxRepository) DeleteSynced(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM outbox_entries WHERE status = 'synced'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteUndelivered removes pending and failed entries. Used before a full
// resync re-enqueues every record, to avoid duplicate entries.
func (r *SQLiteOutboxRepository) DeleteUndelivered(ctx context.Context) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`DELETE FROM outbox_entries WHERE status IN ('pending', 'failed')`)
	return err
}

// PruneSynced keeps only the most recently delivered entries, by synced_at.
func (r *SQLiteOutboxRepository) PruneSynced(ctx context.Context, keep int) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM outbox_entries
			  WHERE status = 'synced' AND id NOT IN (
			      SELECT id FROM outbox_entries WHERE status = 'synced' ORDER BY synced_at DESC LIMIT ?
			  )`

	_, err := querier.ExecContext(ctx, query, keep)
	return err
}

// scanEntries reads outbox entries from a result set.
func scanEntries(rows *sql.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		var (
			entry        domain.Entry
			errorMessage sql.NullString
			syncedAt     sql.NullTime
		)

		err := rows.Scan(&entry.ID, &entry.TableName, &entry.Operation, &entry.RecordID, &entry.Payload,
			&entry.Status, &entry.RetryCount, &errorMessage, &entry.CreatedAt, &syncedAt)
		if err != nil {
			return nil, err
		}

		if errorMessage.Valid {
			entry.ErrorMessage = &errorMessage.String
		}
		if syncedAt.Valid {
			entry.SyncedAt = &syncedAt.Time
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// scanStats reads a status/count result set into Stats.
func scanStats(rows *sql.Rows) (*domain.Stats, error) {
	var stats domain.Stats
	for rows.Next() {
		var (
			status domain.Status
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}

		switch status {
		case domain.StatusPending:
			stats.Pending = count
		case domain.StatusSyncing:
			stats.Syncing = count
		case domain.StatusSynced:
			stats.Synced = count
		case domain.StatusFailed:
			stats.Failed = count
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &stats, nil
}
