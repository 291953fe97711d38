package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSetSyncEnabled enables or disables background synchronization on the
// active configuration.
func RunSetSyncEnabled(ctx context.Context, configUseCase *syncUsecase.ConfigUseCase, logger *slog.Logger, w io.Writer, enabled bool) error {
	if err := configUseCase.SetSyncEnabled(ctx, enabled); err != nil {
		return fmt.Errorf("failed to update sync enabled flag: %w", err)
	}

	logger.Info("sync enabled flag updated", slog.Bool("enabled", enabled))
	if enabled {
		fmt.Fprintln(w, "Background sync enabled")
	} else {
		fmt.Fprintln(w, "Background sync disabled")
	}
	return nil
}
