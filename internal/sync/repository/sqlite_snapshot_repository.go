package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// syncedColumns lists, per replicated table, the columns that travel to the
// remote. The local-only synced flag is excluded. Table and column names are
// interpolated into SQL, so lookups double as a whitelist.
var syncedColumns = map[string][]string{
	"shop_settings": {"id", "shop_name", "phone", "address", "logo_path", "customer_id_prefix", "order_id_prefix", "created_at", "updated_at"},
	"customers":     {"id", "customer_id", "name", "phone", "address", "city", "social_media_url", "platform", "created_at", "updated_at", "deleted_at"},
	"orders":        {"id", "order_id", "customer_id", "status", "order_from", "exchange_rate", "shipping_fee", "delivery_fee", "cargo_fee", "service_fee", "order_date", "created_at", "updated_at", "deleted_at"},
	"order_items":   {"id", "order_id", "product_url", "product_qty", "price", "product_weight", "created_at", "updated_at", "deleted_at"},
	"expenses":      {"id", "expense_id", "title", "amount", "category", "payment_method", "notes", "expense_date", "created_at", "updated_at", "deleted_at"},
}

// tableHasColumn reports whether the replicated column set of table includes name.
func tableHasColumn(table, name string) bool {
	for _, column := range syncedColumns[table] {
		if column == name {
			return true
		}
	}
	return false
}

// SQLiteSnapshotRepository captures full-row snapshots of the replicated
// business tables for SQLite, serialized server-side with json_object.
type SQLiteSnapshotRepository struct {
	db *sql.DB
}

// NewSQLiteSnapshotRepository creates a new SQLiteSnapshotRepository.
func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

// Snapshots returns every live row of the given table as a JSON object
// matching the remote schema.
func (r *SQLiteSnapshotRepository) Snapshots(ctx context.Context, table string) ([]*domain.Snapshot, error) {
	columns, ok := syncedColumns[table]
	if !ok {
		return nil, errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	pairs := make([]string, 0, len(columns))
	for _, column := range columns {
		pairs = append(pairs, "'"+column+"', "+column)
	}

	query := `SELECT id, json_object(` + strings.Join(pairs, ", ") + `) FROM ` + table
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
func (r *SQLiteSnapshotRepository) MarkAllUnsynced(ctx context.Context, table string) error {
	if _, ok := syncedColumns[table]; !ok {
		return errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE `+table+` SET synced = 0`)
	return err
}

// MarkRecordSynced flags one row of the given table as delivered.
func (r *SQLiteSnapshotRepository) MarkRecordSynced(ctx context.Context, table string, recordID int64) error {
	if _, ok := syncedColumns[table]; !ok {
		return errors.Wrap(errors.ErrInvalidInput, "unknown table "+table)
	}

	querier := database.GetTx(ctx, r.db)
	_, err := querier.ExecContext(ctx, `UPDATE `+table+` SET synced = 1 WHERE id = ?`, recordID)
	return err
}

// scanSnapshots reads record id and payload pairs from a result set.
func scanSnapshots(rows *sql.Rows) ([]*domain.Snapshot, error) {
	var snapshots []*domain.Snapshot
	for rows.Next() {
		var snapshot domain.Snapshot
		if err := rows.Scan(&snapshot.RecordID, &snapshot.Payload); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return snapshots, nil
}
