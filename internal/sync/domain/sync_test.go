package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bkjonathan/sine-shin/internal/errors"
)

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		synced   int64
		failed   int64
		expected SessionStatus
	}{
		{"nothing attempted", 0, 0, SessionCompleted},
		{"all delivered", 5, 0, SessionCompleted},
		{"partial progress", 3, 2, SessionCompleted},
		{"every delivery failed", 0, 4, SessionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Outcome(tt.synced, tt.failed))
		})
	}
}

func TestRemoteConfigInterval(t *testing.T) {
	config := &RemoteConfig{SyncIntervalSeconds: 30}
	assert.Equal(t, 30*time.Second, config.Interval())
}

func TestDomainErrorSentinels(t *testing.T) {
	assert.True(t, errors.Is(ErrNoActiveConfig, errors.ErrNotFound))
	assert.True(t, errors.Is(ErrSyncInProgress, errors.ErrConflict))
	assert.True(t, errors.Is(ErrInvalidMasterSecret, errors.ErrUnauthorized))
	assert.True(t, errors.Is(ErrRemoteUnreachable, errors.ErrUnavailable))
}
