package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunResync drops undelivered entries and re-enqueues every live row of every
// replicated table. Gated on the master secret.
func RunResync(ctx context.Context, resyncUseCase *syncUsecase.ResyncUseCase, logger *slog.Logger, w io.Writer, masterSecret string) error {
	queued, err := resyncUseCase.FullResync(ctx, masterSecret)
	if err != nil {
		return fmt.Errorf("failed to run full resync: %w", err)
	}

	fmt.Fprintf(w, "Full resync queued %d entr%s\n", queued, pluralY(queued))
	return nil
}
