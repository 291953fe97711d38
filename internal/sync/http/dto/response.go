package dto

import (
	"time"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/domain"
)

// ConfigResponse exposes a remote configuration with its keys masked.
type ConfigResponse struct {
	ID                  int64     `json:"id"`
	EndpointURL         string    `json:"endpoint_url"`
	AnonKey             string    `json:"anon_key"`
	ServiceKey          string    `json:"service_key"`
	SyncEnabled         bool      `json:"sync_enabled"`
	SyncIntervalSeconds int       `json:"sync_interval_seconds"`
	CreatedAt           time.Time `json:"created_at"`
}

// MapConfigToResponse converts a RemoteConfig into its API representation,
// masking both keys. Keys leave the process only toward the remote endpoint.
func MapConfigToResponse(config *domain.RemoteConfig) ConfigResponse {
	return ConfigResponse{
		ID:                  config.ID,
		EndpointURL:         config.EndpointURL,
		AnonKey:             maskKey(config.AnonKey),
		ServiceKey:          maskKey(config.ServiceKey),
		SyncEnabled:         config.SyncEnabled,
		SyncIntervalSeconds: config.SyncIntervalSeconds,
		CreatedAt:           config.CreatedAt,
	}
}

// maskKey keeps the first four characters of a key and hides the rest.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}

// SessionResponse exposes one sync session.
type SessionResponse struct {
	ID          int64      `json:"id"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	TotalQueued int64      `json:"total_queued"`
	TotalSynced int64      `json:"total_synced"`
	TotalFailed int64      `json:"total_failed"`
	Status      string     `json:"status"`
}

// MapSessionToResponse converts a SyncSession into its API representation.
func MapSessionToResponse(session *domain.SyncSession) SessionResponse {
	return SessionResponse{
		ID:          session.ID,
		StartedAt:   session.StartedAt,
		FinishedAt:  session.FinishedAt,
		TotalQueued: session.TotalQueued,
		TotalSynced: session.TotalSynced,
		TotalFailed: session.TotalFailed,
		Status:      string(session.Status),
	}
}

// ListSessionsResponse wraps a page of sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

// MapSessionsToResponse converts a slice of sessions.
func MapSessionsToResponse(sessions []*domain.SyncSession) ListSessionsResponse {
	out := ListSessionsResponse{Sessions: make([]SessionResponse, 0, len(sessions))}
	for _, session := range sessions {
		out.Sessions = append(out.Sessions, MapSessionToResponse(session))
	}
	return out
}

// EntryResponse exposes one outbox entry.
type EntryResponse struct {
	ID           int64      `json:"id"`
	TableName    string     `json:"table_name"`
	Operation    string     `json:"operation"`
	RecordID     int64      `json:"record_id"`
	Status       string     `json:"status"`
	RetryCount   int        `json:"retry_count"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	SyncedAt     *time.Time `json:"synced_at,omitempty"`
}

// MapEntryToResponse converts an outbox entry into its API representation.
// The payload is omitted: it may contain customer data.
func MapEntryToResponse(entry *outboxdomain.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		TableName:    entry.TableName,
		Operation:    string(entry.Operation),
		RecordID:     entry.RecordID,
		Status:       string(entry.Status),
		RetryCount:   entry.RetryCount,
		ErrorMessage: entry.ErrorMessage,
		CreatedAt:    entry.CreatedAt,
		SyncedAt:     entry.SyncedAt,
	}
}

// ListEntriesResponse wraps a page of outbox entries.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// MapEntriesToResponse converts a slice of outbox entries.
func MapEntriesToResponse(entries []*outboxdomain.Entry) ListEntriesResponse {
	out := ListEntriesResponse{Entries: make([]EntryResponse, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, MapEntryToResponse(entry))
	}
	return out
}

// MessageResponse acknowledges an operation that finishes in the background.
type MessageResponse struct {
	Message string `json:"message"`
}

// CountResponse reports how many rows an operation touched.
type CountResponse struct {
	Count int64 `json:"count"`
}

// ResyncResponse reports how many entries a full resync queued.
type ResyncResponse struct {
	EntriesQueued int64 `json:"entries_queued"`
}

// RotateResponse reports the outcome of a credential rotation.
type RotateResponse struct {
	Config        ConfigResponse `json:"config"`
	EntriesQueued int64          `json:"entries_queued"`
}
