package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSyncSessions lists recent sync sessions, newest first.
func RunSyncSessions(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer, limit int, format string) error {
	sessions, err := admin.Sessions(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list sync sessions: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(sessions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
		return nil
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sync sessions recorded")
		return nil
	}

	for _, session := range sessions {
		finished := "running"
		if session.FinishedAt != nil {
			finished = session.FinishedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "#%d  %s  started=%s finished=%s  queued=%d synced=%d failed=%d\n",
			session.ID,
			session.Status,
			session.StartedAt.Format("2006-01-02 15:04:05"),
			finished,
			session.TotalQueued,
			session.TotalSynced,
			session.TotalFailed,
		)
	}

	return nil
}
