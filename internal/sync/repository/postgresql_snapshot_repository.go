package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// PostgreSQLSnapshotRepository captures full-row snapshots of the replicated
// business tables for PostgreSQL, serialized server-side with
// json_build_object.
type PostgreSQLSnapshotRepository struct {
	db *sql.DB
}

// NewPostgreSQLSnapshotRepository creates a new PostgreSQLSnapshotRepository.
func NewPostgreSQLSnapshotRepository(db *sql.DB) *PostgreSQLSnapshotRepository {
	return &PostgreSQLSnapshotRepository{db: db}
}

// Snapshots returns every live row of the given table as a JSON object
// matching the remote schema.
func (r *PostgreSQLSnapshotRepository) Snapshots(ctx context.Context, table string) ([]*domain.Snapshot, error) {
	columns, ok := syncedColumns[table]
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	pairs := make([]string, 0, len(columns))
	for _, column := range columns {
		pairs = append(pairs, "'"+column+"', "+column)
	}

	query := `SELECT id, json_build_object(` + strings.Join(pairs, ", ") + `)::text FROM ` + table
	if tableHasColumn(table, "deleted_at") {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY id ASC`

	querier := database.GetTx(ctx, r.db)
	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	return scanSnapshots(rows)
}

// MarkAllUnsynced flags every row of the given table for redelivery.
func (r *PostgreSQLSnapshotRepository) MarkAllUnsynced(ctx context.Context, table string) error {
	if _, ok := syncedColumns[table]; !ok {
		return errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE `+table+` SET synced = FALSE`)
	return err
}

// MarkRecordSynced flags one row of the given table as delivered.
func (r *PostgreSQLSnapshotRepository) MarkRecordSynced(ctx context.Context, table string, recordID int64) error {
	if _, ok := syncedColumns[table]; !ok {
		return errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE `+table+` SET synced = TRUE WHERE id = $1`, recordID)
	return err
}
