package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunRetryFailed requeues every failed outbox entry with a fresh retry budget.
func RunRetryFailed(ctx context.Context, admin *syncUsecase.AdminUseCase, logger *slog.Logger, w io.Writer) error {
	count, err := admin.RetryFailed(ctx)
	if err != nil {
		return fmt.Errorf("failed to requeue failed entries: %w", err)
	}

	fmt.Fprintf(w, "Requeued %d failed entr%s\n", count, pluralY(count))
	return nil
}

func pluralY(count int64) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
