package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

func TestConfigSaveFirstTime(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	config, err := e.config.Save(ctx, SaveConfigInput{
		EndpointURL: "https://example.supabase.co",
		AnonKey:     "anon-key",
		ServiceKey:  "service-key",
	})
	require.NoError(t, err)
	assert.True(t, config.IsActive)
	assert.True(t, config.SyncEnabled)
	assert.Equal(t, DefaultSyncIntervalSeconds, config.SyncIntervalSeconds)

	got, err := e.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, config.ID, got.ID)
}

func TestConfigSavePreservesTuning(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	_, err := e.config.Save(ctx, SaveConfigInput{
		EndpointURL: "https://old.supabase.co",
		AnonKey:     "anon-key",
		ServiceKey:  "service-key",
	})
	require.NoError(t, err)
	require.NoError(t, e.config.UpdateInterval(ctx, 120))
	require.NoError(t, e.config.SetSyncEnabled(ctx, false))

	replacement, err := e.config.Save(ctx, SaveConfigInput{
		EndpointURL: "https://new.supabase.co",
		AnonKey:     "new-anon",
		ServiceKey:  "new-service",
	})
	require.NoError(t, err)
	assert.Equal(t, 120, replacement.SyncIntervalSeconds, "cadence survives rotation")
	assert.False(t, replacement.SyncEnabled, "enablement survives rotation")

	got, err := e.config.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://new.supabase.co", got.EndpointURL)
}

func TestConfigSaveValidation(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	tests := []struct {
		name  string
		input SaveConfigInput
	}{
		{"missing endpoint", SaveConfigInput{AnonKey: "a", ServiceKey: "s"}},
		{"relative endpoint", SaveConfigInput{EndpointURL: "example.com/path", AnonKey: "a", ServiceKey: "s"}},
		{"trailing slash", SaveConfigInput{EndpointURL: "https://example.com/", AnonKey: "a", ServiceKey: "s"}},
		{"blank anon key", SaveConfigInput{EndpointURL: "https://example.com", AnonKey: "  ", ServiceKey: "s"}},
		{"missing service key", SaveConfigInput{EndpointURL: "https://example.com", AnonKey: "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.config.Save(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidInput))
		})
	}

	_, err := e.config.Get(ctx)
	require.ErrorIs(t, err, domain.ErrNoActiveConfig, "failed saves leave no config behind")
}

func TestConfigUpdateIntervalBounds(t *testing.T) {
	e := newEngine(t, "")
	ctx := context.Background()

	err := e.config.UpdateInterval(ctx, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestConfigTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"paths":{"/customers":{},"/orders":{},"/order_items":{},"/expenses":{},"/shop_settings":{},"/sync_log":{}}}`))
	}))
	defer server.Close()

	e := newEngine(t, server.URL)

	result, err := e.config.TestConnection(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Connected)
	assert.True(t, result.TablesExist)
}

func TestConfigTestConnectionWithoutConfig(t *testing.T) {
	e := newEngine(t, "")

	_, err := e.config.TestConnection(context.Background())
	require.ErrorIs(t, err, domain.ErrNoActiveConfig)
}
