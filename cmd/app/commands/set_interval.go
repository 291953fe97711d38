package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSetInterval changes the background sync cadence of the active
// configuration.
func RunSetInterval(ctx context.Context, configUseCase *syncUsecase.ConfigUseCase, logger *slog.Logger, w io.Writer, seconds int) error {
	if err := configUseCase.UpdateInterval(ctx, seconds); err != nil {
		return fmt.Errorf("failed to update sync interval: %w", err)
	}

	logger.Info("sync interval updated", slog.Int("seconds", seconds))
	fmt.Fprintf(w, "Sync interval set to %d seconds\n", seconds)
	return nil
}
