package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunClearSynced removes delivered outbox entries. With days zero every
// delivered entry is removed; otherwise only entries delivered more than
// that many days ago.
func RunClearSynced(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer, days int) error {
	count, err := admin.ClearSynced(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to clear synced entries: %w", err)
	}

	logger.Info("cleared synced entries", slog.Int64("count", count), slog.Int("older_than_days", days))
	fmt.Fprintf(w, "Deleted %d synced entr%s\n", count, pluralY(count))
	return nil
}
