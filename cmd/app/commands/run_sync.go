package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSync runs one sync session against the remote and reports the outcome.
//
// Requirements: Database must be migrated and a remote configuration saved.
func RunSync(ctx context.Context, runner *syncUsecase.Runner, logger *slog.Logger, w io.Writer, format string) error {
	logger.Info("running sync session")

	session, err := runner.RunSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to run sync session: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(session, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
	} else {
		fmt.Fprintf(w, "Sync session %d finished with status %q: %d synced, %d failed of %d queued\n",
			session.ID, session.Status, session.TotalSynced, session.TotalFailed, session.TotalQueued)
	}

	logger.Info("sync session finished",
		slog.Int64("session_id", session.ID),
		slog.String("status", string(session.Status)),
		slog.Int64("synced", session.TotalSynced),
		slog.Int64("failed", session.TotalFailed),
	)

	return nil
}
