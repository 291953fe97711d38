// Package domain defines the account entity holding the owner's login
// credentials and the master secret that gates destructive sync operations.
package domain

import (
	"time"

	"github.com/bkjonathan/sine-shin/internal/errors"
)

var (
	// ErrNoOwner indicates no owner account has been created yet.
	ErrNoOwner = errors.Wrap(errors.ErrNotFound, "no owner account")
	// ErrInvalidPassword indicates the supplied login password did not match.
	ErrInvalidPassword = errors.Wrap(errors.ErrUnauthorized, "invalid password")
	// ErrMasterSecretNotSet indicates the owner has not configured a master
	// secret yet.
	ErrMasterSecretNotSet = errors.Wrap(errors.ErrUnauthorized, "master secret not set")
)

// RoleOwner is the role of the single account allowed to manage sync
// credentials.
const RoleOwner = "owner"

// Account is a local user of the application.
type Account struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Role             string    `json:"role"`
	PasswordHash     string    `json:"-"`
	MasterSecretHash *string   `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasMasterSecret reports whether a master secret has been configured.
func (a *Account) HasMasterSecret() bool {
	return a.MasterSecretHash != nil && *a.MasterSecretHash != ""
}
