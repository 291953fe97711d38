package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunCleanHistory removes delivered outbox entries and finished sync sessions.
func RunCleanHistory(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer) error {
	result, err := admin.CleanAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean sync history: %w", err)
	}

	fmt.Fprintf(w, "Deleted %d outbox entries and %d sync sessions\n",
		result.EntriesDeleted, result.SessionsDeleted)
	return nil
}
