// Package repository provides data persistence implementations for accounts.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/bkjonathan/sine-shin/internal/account/domain"
	"github.com/bkjonathan/sine-shin/internal/database"
	"github.com/bkjonathan/sine-shin/internal/errors"
)

// SQLiteAccountRepository handles account persistence for SQLite.
type SQLiteAccountRepository struct {
	db *sql.DB
}

// NewSQLiteAccountRepository creates a new SQLiteAccountRepository.
func NewSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

// Create inserts a new account and fills in its generated ID.
func (r *SQLiteAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	querier := database.GetTx(ctx, r.db)

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO accounts (name, role, password_hash, master_secret_hash, created_at)
			  VALUES (?, ?, ?, ?, ?)`

	result, err := querier.ExecContext(ctx, query, account.Name, account.Role,
		account.PasswordHash, account.MasterSecretHash, account.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	account.ID = id

	return nil
}

// GetOwner retrieves the owner account.
func (r *SQLiteAccountRepository) GetOwner(ctx context.Context) (*domain.Account, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT id, name, role, password_hash, master_secret_hash, created_at
			  FROM accounts WHERE role = ? ORDER BY id ASC LIMIT 1`

	var (
		account          domain.Account
		masterSecretHash sql.NullString
	)
	err := querier.QueryRowContext(ctx, query, domain.RoleOwner).Scan(&account.ID, &account.Name,
		&account.Role, &account.PasswordHash, &masterSecretHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoOwner
		}
		return nil, err
	}

	if masterSecretHash.Valid {
		account.MasterSecretHash = &masterSecretHash.String
	}

	return &account, nil
}

// SetMasterSecretHash stores the master secret hash on an account.
func (r *SQLiteAccountRepository) SetMasterSecretHash(ctx context.Context, id int64, hash string) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx,
		`UPDATE accounts SET master_secret_hash = ? WHERE id = ?`, hash, id)
	return err
}
