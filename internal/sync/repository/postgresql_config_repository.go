package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// PostgreSQLConfigRepository handles remote configuration persistence for PostgreSQL.
type PostgreSQLConfigRepository struct {
	db *sql.DB
}

// NewPostgreSQLConfigRepository creates a new PostgreSQLConfigRepository.
func NewPostgreSQLConfigRepository(db *sql.DB) *PostgreSQLConfigRepository {
	return &PostgreSQLConfigRepository{db: db}
}

// GetActive retrieves the single active remote configuration.
func (r *PostgreSQLConfigRepository) GetActive(ctx context.Context) (*domain.RemoteConfig, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, endpoint_url, anon_key, service_key, is_active, sync_enabled, sync_interval_seconds, created_at
			  FROM remote_configs WHERE is_active = TRUE LIMIT 1`

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
func (r *PostgreSQLConfigRepository) DeactivateAll(ctx context.Context) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE remote_configs SET is_active = FALSE WHERE is_active = TRUE`)
	return err
}

// Create inserts a new configuration and fills in its generated ID.
func (r *PostgreSQLConfigRepository) Create(ctx context.Context, config *domain.RemoteConfig) error {
	querier := database.GetTx(ctx, r.db)

	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO remote_configs (endpoint_url, anon_key, service_key, is_active, sync_enabled, sync_interval_seconds, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`

	return querier.QueryRowContext(ctx, query, config.EndpointURL, config.AnonKey, config.ServiceKey,
		config.IsActive, config.SyncEnabled, config.SyncIntervalSeconds, config.CreatedAt).Scan(&config.ID)
}

// UpdateInterval changes the sync cadence of the active configuration.
func (r *PostgreSQLConfigRepository) UpdateInterval(ctx context.Context, seconds int) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE remote_configs SET sync_interval_seconds = $1 WHERE is_active = TRUE`, seconds)
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
func (r *PostgreSQLConfigRepository) SetSyncEnabled(ctx context.Context, enabled bool) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx,
		`UPDATE remote_configs SET sync_enabled = $1 WHERE is_active = TRUE`, enabled)
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
