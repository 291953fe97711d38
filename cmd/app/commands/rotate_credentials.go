package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunRotateCredentials swaps the active remote configuration and queues a
// full resync so the new backend receives the complete dataset. Gated on the
// master secret.
func RunRotateCredentials(ctx context.Context, resyncUseCase *syncUsecase.ResyncUseCase, logger *slog.Logger, w io.Writer, masterSecret, endpointURL, anonKey, serviceKey string) error {
	config, queued, err := resyncUseCase.RotateCredentials(ctx, masterSecret, syncUsecase.SaveConfigInput{
		EndpointURL: endpointURL,
		AnonKey:     anonKey,
		ServiceKey:  serviceKey,
	})
	if err != nil {
		return fmt.Errorf("failed to rotate credentials: %w", err)
	}

	fmt.Fprintf(w, "Rotated credentials to %s and queued %d entr%s for resync\n",
		config.EndpointURL, queued, pluralY(queued))
	return nil
}
