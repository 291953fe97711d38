// Package domain defines the core entities of the synchronization engine:
// the remote endpoint configuration, sync sessions, and their lifecycle.
package domain

import (
	"time"

	"github.com/bkjonathan/sine-shin/internal/errors"
)

var (
	// ErrNoActiveConfig indicates no remote endpoint has been configured yet.
	ErrNoActiveConfig = errors.Wrap(errors.ErrNotFound, "no active remote configuration")
	// ErrSyncInProgress indicates a sync session is already running.
	ErrSyncInProgress = errors.Wrap(errors.ErrConflict, "a sync session is already in progress")
	// ErrInvalidMasterSecret indicates the supplied master secret did not
	// match the stored hash.
	ErrInvalidMasterSecret = errors.Wrap(errors.ErrUnauthorized, "invalid master secret")
	// ErrRemoteUnreachable indicates the remote endpoint did not accept the
	// connection test.
	ErrRemoteUnreachable = errors.Wrap(errors.ErrUnavailable, "remote endpoint unreachable")
)

// SyncedTables lists the business tables replicated to the remote, in
// dependency order so parents land before children.
var SyncedTables = []string{
	"shop_settings",
	"customers",
	"orders",
	"order_items",
	"expenses",
}

// RemoteConfig holds the credentials and cadence for one remote endpoint.
// At most one config is active at a time.
type RemoteConfig struct {
	ID                  int64     `json:"id"`
	EndpointURL         string    `json:"endpoint_url"`
	AnonKey             string    `json:"-"`
	ServiceKey          string    `json:"-"`
	IsActive            bool      `json:"is_active"`
	SyncEnabled         bool      `json:"sync_enabled"`
	SyncIntervalSeconds int       `json:"sync_interval_seconds"`
	CreatedAt           time.Time `json:"created_at"`
}

// Interval returns the configured sync cadence as a duration.
func (c *RemoteConfig) Interval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// SessionStatus is the lifecycle state of a sync session.
type SessionStatus string

const (
	SessionRunning   SessionStatus = "running"
	SessionCompleted SessionStatus = "completed"
	SessionFailed    SessionStatus = "failed"
)

// SyncSession records one drain of the outbox against the remote.
type SyncSession struct {
	ID          int64         `json:"id"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at"`
	TotalQueued int64         `json:"total_queued"`
	TotalSynced int64         `json:"total_synced"`
	TotalFailed int64         `json:"total_failed"`
	Status      SessionStatus `json:"status"`
}

// Outcome returns the terminal status for a session with the given counters.
// A session fails only when every attempted delivery failed; partial
// progress still counts as completed.
func Outcome(synced, failed int64) SessionStatus {
	if failed > 0 && synced == 0 {
		return SessionFailed
	}
	return SessionCompleted
}

// ConnectionResult reports the outcome of a remote connection test.
type ConnectionResult struct {
	Connected   bool     `json:"connected"`
	TablesExist bool     `json:"tables_exist"`
	Missing     []string `json:"missing_tables,omitempty"`
	Message     string   `json:"message"`
}

// Snapshot is one row captured from a business table during a full resync,
// already serialized as the JSON object the remote expects.
type Snapshot struct {
	RecordID int64
	Payload  string
}
