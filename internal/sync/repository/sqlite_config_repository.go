// Package repository provides data persistence implementations for the
// synchronization engine: remote configurations, sync sessions, and the
// business-table snapshots used by full resync.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// SQLiteConfigRepository handles remote configuration persistence for SQLite.
type SQLiteConfigRepository struct {
	db *sql.DB
}

// NewSQLiteConfigRepository creates a new SQLiteConfigRepository.
func NewSQLiteConfigRepository(db *sql.DB) *SQLiteConfigRepository {
	return &SQLiteConfigRepository{db: db}
}

// GetActive retrieves the single active remote configuration.
func (r *SQLiteConfigRepository) GetActive(ctx context.Context) (*domain.RemoteConfig, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, endpoint_url, anon_key, service_key, is_active, sync_enabled, sync_interval_seconds, created_at
			  FROM remote_configs WHERE is_active = 1 LIMIT 1`

	var config domain.RemoteConfig
	err := querier.QueryRowContext(ctx, query).Scan(&config.ID, &config.EndpointURL, &config.AnonKey,
		&config.ServiceKey, &config.IsActive, &config.SyncEnabled, &config.SyncIntervalSeconds, &config.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoActiveConfig
		}
		return nil, err
	}

	return &config, nil
}

// DeactivateAll clears the active flag on every stored configuration.
func (r *SQLiteConfigRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE remote_configs SET is_active = 0 WHERE is_active = 1`)
	return err
}

// Create inserts a new configuration and fills in its generated ID.
func (r *SQLiteConfigRepository) Create(ctx context.Context, config *domain.RemoteConfig) error {
	querier := database.GetTx(ctx, r.db)

	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO remote_configs (endpoint_url, anon_key, service_key, is_active, sync_enabled, sync_interval_seconds, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, config.EndpointURL, config.AnonKey, config.ServiceKey,
		config.IsActive, config.SyncEnabled, config.SyncIntervalSeconds, config.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	config.ID = id

	return nil
}

// UpdateInterval changes the sync cadence of the active configuration.
func (r *SQLiteConfigRepository) UpdateInterval(ctx context.Context, seconds int) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE remote_configs SET sync_interval_seconds = ? WHERE is_active = 1`, seconds)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNoActiveConfig
	}

	return nil
}

// SetSyncEnabled toggles background syncing on the active configuration.
func (r *SQLiteConfigRepository) SetSyncEnabled(ctx context.Context, enabled bool) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE remote_configs SET sync_enabled = ? WHERE is_active = 1`, enabled)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNoActiveConfig
	}

	return nil
}
