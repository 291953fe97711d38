// Package usecase implements the outbox writer: the single producer that
// business mutations call to record a change for later delivery.
package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bkjonathan/sine-shin/internal/outbox/domain"
)

// EntryRepository defines the outbox persistence the writer needs.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
}

// Writer appends one outbox entry per affected row after a committed
// business mutation.
type Writer struct {
	repo   EntryRepository
	logger *slog.Logger
}

// NewWriter creates a new Writer.
func NewWriter(repo EntryRepository, logger *slog.Logger) *Writer {
	return &Writer{
		repo:   repo,
		logger: logger,
	}
}

// Enqueue records a mutation as a pending outbox entry. It is
// fire-and-forget: a failed enqueue must never roll back or block the
// business mutation that triggered it, so every failure is logged and
// swallowed. The worst case is a missed sync, recoverable via full resync.
func (w *Writer) Enqueue(ctx context.Context, table string, operation domain.Operation, recordID int64, payload any) {
	if !operation.Valid() {
		if w.logger != nil {
			w.logger.Warn("dropping outbox entry with unknown operation",
				slog.String("table", table),
				slog.String("operation", string(operation)),
				slog.Int64("record_id", recordID),
			)
		}
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		if w.logger != nil {
			w.logger.Warn("failed to marshal outbox payload",
				slog.String("table", table),
				slog.Int64("record_id", recordID),
				slog.Any("error", err),
			)
		}
		return
	}

	entry := &domain.Entry{
		TableName: table,
		Operation: operation,
		RecordID:  recordID,
		Payload:   string(body),
		Status:    domain.StatusPending,
	}

	if err := w.repo.Create(ctx, entry); err != nil {
		if w.logger != nil {
			w.logger.Warn("failed to enqueue outbox entry",
				slog.String("table", table),
				slog.String("operation", string(operation)),
				slog.Int64("record_id", recordID),
				slog.Any("error", err),
			)
		}
	}
}
