package usecase

import (
	"context"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/bkjonathan/sine-shin/internal/database"
	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/service"
	appvalidation "github.com/bkjonathan/sine-shin/internal/validation"
)

// DefaultSyncIntervalSeconds is the cadence a brand-new configuration gets.
const DefaultSyncIntervalSeconds = 30

// MinSyncIntervalSeconds is the lowest cadence accepted, matching the
// dispatcher's tick.
const MinSyncIntervalSeconds = 5

// SaveConfigInput contains the input data for saving a remote configuration.
type SaveConfigInput struct {
	EndpointURL string `json:"endpoint_url"`
	AnonKey     string `json:"anon_key"`
	ServiceKey  string `json:"service_key"`
}

// ConfigUseCase manages the remote endpoint configuration.
type ConfigUseCase struct {
	txManager database.TxManager
	configs   ConfigRepository
	pusher    service.Pusher
}

// NewConfigUseCase creates a new ConfigUseCase.
func NewConfigUseCase(txManager database.TxManager, configs ConfigRepository, pusher service.Pusher) *ConfigUseCase {
	return &ConfigUseCase{
		txManager: txManager,
		configs:   configs,
		pusher:    pusher,
	}
}

// validateSaveConfigInput validates a configuration before it is stored.
func (uc *ConfigUseCase) validateSaveConfigInput(input SaveConfigInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.EndpointURL,
			validation.Required.Error("endpoint_url is required"),
			appvalidation.EndpointURL,
		),
		validation.Field(&input.AnonKey,
			validation.Required.Error("anon_key is required"),
			appvalidation.NotBlank,
		),
		validation.Field(&input.ServiceKey,
			validation.Required.Error("service_key is required"),
			appvalidation.NotBlank,
		),
	)
	return appvalidation.WrapValidationError(err)
}

// Save stores a new active configuration, replacing any previous one. The
// sync cadence of the replaced configuration is preserved so rotating
// credentials does not reset tuning. Runs in a transaction: a failed save
// never leaves the engine without an active config.
func (uc *ConfigUseCase) Save(ctx context.Context, input SaveConfigInput) (*domain.RemoteConfig, error) {
	if err := uc.validateSaveConfigInput(input); err != nil {
		return nil, err
	}

	config := &domain.RemoteConfig{
		EndpointURL:         strings.TrimSpace(input.EndpointURL),
		AnonKey:             strings.TrimSpace(input.AnonKey),
		ServiceKey:          strings.TrimSpace(input.ServiceKey),
		IsActive:            true,
		SyncEnabled:         true,
		SyncIntervalSeconds: DefaultSyncIntervalSeconds,
	}

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		previous, err := uc.configs.GetActive(ctx)
		switch {
		case err == nil:
			config.SyncIntervalSeconds = previous.SyncIntervalSeconds
			config.SyncEnabled = previous.SyncEnabled
		case apperrors.Is(err, domain.ErrNoActiveConfig):
			// first-time setup
		default:
			return err
		}

		if err := uc.configs.DeactivateAll(ctx); err != nil {
			return err
		}
		return uc.configs.Create(ctx, config)
	})
	if err != nil {
		return nil, err
	}

	return config, nil
}

// Get returns the active configuration.
func (uc *ConfigUseCase) Get(ctx context.Context) (*domain.RemoteConfig, error) {
	return uc.configs.GetActive(ctx)
}

// UpdateInterval changes the sync cadence of the active configuration.
func (uc *ConfigUseCase) UpdateInterval(ctx context.Context, seconds int) error {
	if seconds < MinSyncIntervalSeconds {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "sync interval must be at least 5 seconds")
	}
	return uc.configs.UpdateInterval(ctx, seconds)
}

// SetSyncEnabled toggles background syncing without touching credentials.
func (uc *ConfigUseCase) SetSyncEnabled(ctx context.Context, enabled bool) error {
	return uc.configs.SetSyncEnabled(ctx, enabled)
}

// TestConnection probes the active configuration's endpoint.
func (uc *ConfigUseCase) TestConnection(ctx context.Context) (*domain.ConnectionResult, error) {
	config, err := uc.configs.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return uc.pusher.TestConnection(ctx, config)
}
