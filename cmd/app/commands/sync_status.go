package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSyncStatus shows outbox entry counts grouped by delivery status.
func RunSyncStatus(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer, format string) error {
	stats, err := admin.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to get outbox stats: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
	} else {
		fmt.Fprintf(w, "Outbox queue:\n")
		fmt.Fprintf(w, "  pending: %d\n", stats.Pending)
		fmt.Fprintf(w, "  syncing: %d\n", stats.Syncing)
		fmt.Fprintf(w, "  synced:  %d\n", stats.Synced)
		fmt.Fprintf(w, "  failed:  %d\n", stats.Failed)
	}

	return nil
}
