// Package domain defines the outbox entry model: the durable log of local
// mutations awaiting delivery to the remote backend.
package domain

import (
	"time"

	"github.com/bkjonathan/sine-shin/internal/errors"
)

// Operation is the kind of mutation an outbox entry carries.
type Operation string

const (
	OperationInsert Operation = "INSERT"
	OperationUpdate Operation = "UPDATE"
	// OperationDelete is delivered as a soft delete: the payload carries the
	// deleted_at marker and the remote row is patched, never removed, so
	// repeated delivery converges to the same end state.
	OperationDelete Operation = "DELETE"
)

// Valid reports whether the operation is one of the closed set. Entries can
// only enter the store through the writer, so an invalid operation means a
// foreign producer; the runner skips such entries without counting them.
func (o Operation) Valid() bool {
	switch o {
	case OperationInsert, OperationUpdate, OperationDelete:
		return true
	}
	return false
}

// Status is the delivery state of an outbox entry.
type Status string

const (
	StatusPending Status = "pending"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusFailed  Status = "failed"
)

// Valid reports whether the status is one of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSyncing, StatusSynced, StatusFailed:
		return true
	}
	return false
}

// Entry is one durable record of a local mutation. Payload is a complete
// snapshot of the record at enqueue time, not a diff, so replay against the
// remote is idempotent regardless of delivery order within the same record.
type Entry struct {
	ID           int64
	TableName    string
	Operation    Operation
	RecordID     int64
	Payload      string
	Status       Status
	RetryCount   int
	ErrorMessage *string
	CreatedAt    time.Time
	SyncedAt     *time.Time
}

// Stats holds entry counts grouped by status.
type Stats struct {
	Pending int64 `json:"pending"`
	Syncing int64 `json:"syncing"`
	Synced  int64 `json:"synced"`
	Failed  int64 `json:"failed"`
}

// Domain-specific errors for outbox operations.
var (
	// ErrInvalidStatus indicates a status filter outside the closed set.
	ErrInvalidStatus = errors.Wrap(errors.ErrInvalidInput, "invalid outbox status")
)
