package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/outbox/domain"
)

// PostgreSQLOutboxRepository handles outbox entry persistence for PostgreSQL.
type PostgreSQLOutboxRepository struct {
	db *sql.DB
}

// NewPostgreSQLOutboxRepository creates a new PostgreSQLOutboxRepository.
func NewPostgreSQLOutboxRepository(db *sql.DB) *PostgreSQLOutboxRepository {
	return &PostgreSQLOutboxRepository{db: db}
}

const pgEntryColumns = `id, table_name, operation, record_id, payload, status, retry_count, error_message, created_at, synced_at`

// Create inserts a new outbox entry and fills in its generated ID.
func (r *PostgreSQLOutboxRepository) Create(ctx context.Context, entry *domain.Entry) error {
	querier := database.GetTx(ctx, r.db)

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO outbox_entries (table_name, operation, record_id, payload, status, retry_count, error_message, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id`

	return querier.QueryRowContext(ctx, query, entry.TableName, entry.Operation, entry.RecordID,
		entry.Payload, entry.Status, entry.RetryCount, entry.ErrorMessage, entry.CreatedAt).Scan(&entry.ID)
}

// ListEligible retrieves pending entries plus failed ones under the retry
// cap, oldest first.
func (r *PostgreSQLOutboxRepository) ListEligible(ctx context.Context, maxRetries int) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + pgEntryColumns + `
			  FROM outbox_entries
			  WHERE status = 'pending' OR (status = 'failed' AND retry_count < $1)
			  ORDER BY created_at ASC, id ASC`

	rows, err := querier.QueryContext(ctx, query, maxRetries)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanEntries(rows)
}

// MarkSyncing transitions an entry to the syncing state.
func (r *PostgreSQLOutboxRepository) MarkSyncing(ctx context.Context, id int64) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE outbox_entries SET status = 'syncing' WHERE id = $1`, id)
	return err
}

// MarkSynced transitions an entry to the synced state and stamps synced_at.
func (r *PostgreSQLOutboxRepository) MarkSynced(ctx context.Context, id int64, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'synced', synced_at = $1, error_message = NULL WHERE id = $2`, at, id)
	return err
}

// MarkFailed transitions an entry to the failed state, bumping its retry
// counter and recording the delivery error.
func (r *PostgreSQLOutboxRepository) MarkFailed(ctx context.Context, id int64, message string) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'failed', retry_count = retry_count + 1, error_message = $1 WHERE id = $2`,
		message, id)
	return err
}

// CountByStatus returns entry counts grouped by status.
func (r *PostgreSQLOutboxRepository) CountByStatus(ctx context.Context) (*domain.Stats, error) {
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
func (r *PostgreSQLOutboxRepository) List(ctx context.Context, status *domain.Status, limit int) ([]*domain.Entry, error) {
	querier := database.GetTx(ctx, r.db)

	var (
		rows *sql.Rows
		err  error
	)
	if status != nil {
		rows, err = querier.QueryContext(ctx,
			`SELECT `+pgEntryColumns+` FROM outbox_entries WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2`,
			*status, limit)
	} else {
		rows, err = querier.QueryContext(ctx,
			`SELECT `+pgEntryColumns+` FROM outbox_entries ORDER BY created_at DESC, id DESC LIMIT $1`,
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
func (r *PostgreSQLOutboxRepository) ResetFailed(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE outbox_entries SET status = 'pending', retry_count = 0, error_message = NULL WHERE status = 'failed'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ResetOrphaned requeues entries left in the syncing state by an unclean
// shutdown.
func (r *PostgreSQLOutboxRepository) ResetOrphaned(ctx context.Context) (int64, error) {
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
func (r *PostgreSQLOutboxRepository) DeleteSyncedOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`DELETE FROM outbox_entries WHERE status = 'synced' AND synced_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteSynced removes all delivered entries.
func (r *PostgreSQLOutboxRepository) DeleteSynced(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM outbox_entries WHERE status = 'synced'`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteUndelivered removes pending and failed entries before a full resync.
func (r *PostgreSQLOutboxRepository) DeleteUndelivered(ctx context.Context) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`DELETE FROM outbox_entries WHERE status IN ('pending', 'failed')`)
	return err
}

// PruneSynced keeps only the most recently delivered entries, by synced_at.
func (r *PostgreSQLOutboxRepository) PruneSynced(ctx context.Context, keep int) error {
	querier := database.GetTx(ctx, r.db)

	query := `DELETE FROM outbox_entries
			  WHERE status = 'synced' AND id NOT IN (
			      SELECT id FROM outbox_entries WHERE status = 'synced' ORDER BY synced_at DESC LIMIT $1
			  )`

	_, err := querier.ExecContext(ctx, query, keep)
	return err
}
