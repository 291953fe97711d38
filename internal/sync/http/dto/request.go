// Package dto contains request and response types for the sync admin API.
package dto

import "github.com/bkjonathan/sine-shin/internal/sync/usecase"

// SaveConfigRequest is the payload for storing a remote configuration.
type SaveConfigRequest struct {
	EndpointURL string `json:"endpoint_url"`
	AnonKey     string `json:"anon_key"`
	ServiceKey  string `json:"service_key"`
}

// ToInput converts the request into the use case input.
func (r SaveConfigRequest) ToInput() usecase.SaveConfigInput {
	return usecase.SaveConfigInput{
		EndpointURL: r.EndpointURL,
		AnonKey:     r.AnonKey,
		ServiceKey:  r.ServiceKey,
	}
}

// UpdateIntervalRequest is the payload for changing the sync cadence.
type UpdateIntervalRequest struct {
	Seconds int `json:"seconds"`
}

// SetEnabledRequest is the payload for toggling background syncing.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ResyncRequest is the payload for a secret-gated full resync.
type ResyncRequest struct {
	MasterSecret string `json:"master_secret"`
}

// RotateRequest is the payload for a secret-gated credential rotation.
type RotateRequest struct {
	MasterSecret string            `json:"master_secret"`
	Config       SaveConfigRequest `json:"config"`
}
