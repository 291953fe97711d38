// Package usecase implements account business logic: owner registration,
// password checks, and master secret management.
package usecase

import (
	"context"
	"strings"

	"github.com/allisson/go-pwdhash"
	validation "github.com/jellydator/validation"

	"github.com/bkjonathan/sine-shin/internal/account/domain"
	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	syncdomain "github.com/bkjonathan/sine-shin/internal/sync/domain"
	appvalidation "github.com/bkjonathan/sine-shin/internal/validation"
)

// AccountRepository interface defines account repository operations.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetOwner(ctx context.Context) (*domain.Account, error)
	SetMasterSecretHash(ctx context.Context, id int64, hash string) error
}

// RegisterOwnerInput contains the input data for owner registration.
type RegisterOwnerInput struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SetMasterSecretInput contains the input data for configuring the master
// secret. The login password re-authenticates the owner before the secret
// is accepted.
type SetMasterSecretInput struct {
	Password     string `json:"password"`
	MasterSecret string `json:"master_secret"`
}

// AccountUseCase handles account-related business logic.
type AccountUseCase struct {
	accounts AccountRepository
	hasher   *pwdhash.PasswordHasher
}

// NewAccountUseCase creates a new AccountUseCase. The moderate Argon2id
// policy guards the master secret, which protects destructive operations.
func NewAccountUseCase(accounts AccountRepository) (*AccountUseCase, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &AccountUseCase{
		accounts: accounts,
		hasher:   hasher,
	}, nil
}

// RegisterOwner creates the owner account. Only one owner is allowed.
func (uc *AccountUseCase) RegisterOwner(ctx context.Context, input RegisterOwnerInput) (*domain.Account, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appvalidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			validation.Length(8, 128).Error("password must be between 8 and 128 characters"),
		),
	)
	if err := appvalidation.WrapValidationError(err); err != nil {
		return nil, err
	}

	if _, err := uc.accounts.GetOwner(ctx); err == nil {
		return nil, apperrors.Wrap(apperrors.ErrConflict, "owner account already exists")
	} else if !apperrors.Is(err, domain.ErrNoOwner) {
		return nil, err
	}

	passwordHash, err := uc.hasher.Hash([]byte(input.Password))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	account := &domain.Account{
		Name:         strings.TrimSpace(input.Name),
		Role:         domain.RoleOwner,
		PasswordHash: passwordHash,
	}
	if err := uc.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// SetMasterSecret stores a new master secret after re-authenticating the
// owner with their login password.
func (uc *AccountUseCase) SetMasterSecret(ctx context.Context, input SetMasterSecretInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
		),
		validation.Field(&input.MasterSecret,
			validation.Required.Error("master_secret is required"),
			appvalidation.SecretStrength{MinLength: 8},
		),
	)
	if err := appvalidation.WrapValidationError(err); err != nil {
		return err
	}

	owner, err := uc.accounts.GetOwner(ctx)
	if err != nil {
		return err
	}

	if ok, err := uc.hasher.Verify([]byte(input.Password), owner.PasswordHash); err != nil || !ok {
		return domain.ErrInvalidPassword
	}

	secretHash, err := uc.hasher.Hash([]byte(input.MasterSecret))
	if err != nil {
		return apperrors.Wrap(err, "failed to hash master secret")
	}

	return uc.accounts.SetMasterSecretHash(ctx, owner.ID, secretHash)
}

// VerifyMasterSecret checks the given secret against the owner's stored
// hash. Gates full resync and credential rotation.
func (uc *AccountUseCase) VerifyMasterSecret(ctx context.Context, secret string) error {
	owner, err := uc.accounts.GetOwner(ctx)
	if err != nil {
		return err
	}

	if !owner.HasMasterSecret() {
		return domain.ErrMasterSecretNotSet
	}

	ok, err := uc.hasher.Verify([]byte(secret), *owner.MasterSecretHash)
	if err != nil || !ok {
		return syncdomain.ErrInvalidMasterSecret
	}

	return nil
}
