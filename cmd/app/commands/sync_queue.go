package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/http/dto"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSyncQueue lists outbox entries, newest first, optionally filtered by
// delivery status. Payloads are never printed, they can hold customer data.
func RunSyncQueue(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer, status string, limit int, format string) error {
	var statusFilter *outboxdomain.Status
	if status != "" {
		s := outboxdomain.Status(status)
		statusFilter = &s
	}

	entries, err := admin.Queue(ctx, statusFilter, limit)
	if err != nil {
		return fmt.Errorf("failed to list outbox entries: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(dto.MapEntriesToResponse(entries), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
		return nil
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "Outbox queue is empty")
		return nil
	}

	for _, entry := range entries {
		line := fmt.Sprintf("#%d  %s %s record=%d  status=%s retries=%d",
			entry.ID, entry.Operation, entry.TableName, entry.RecordID, entry.Status, entry.RetryCount)
		if entry.ErrorMessage != nil {
			line += fmt.Sprintf("  error=%q", *entry.ErrorMessage)
		}
		fmt.Fprintln(w, line)
	}

	return nil
}
