package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/bkjonathan/sine-shin/internal/sync/http/dto"
	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunSaveConfig saves a remote endpoint configuration, replacing any active
// one while preserving its cadence and enabled flag.
func RunSaveConfig(ctx context.Context, configUseCase *syncUsecase.ConfigUseCase, logger *slog.Logger, w io.Writer, endpointURL, anonKey, serviceKey, format string) error {
	config, err := configUseCase.Save(ctx, syncUsecase.SaveConfigInput{
		EndpointURL: endpointURL,
		AnonKey:     anonKey,
		ServiceKey:  serviceKey,
	})
	if err != nil {
		return fmt.Errorf("failed to save remote configuration: %w", err)
	}

	logger.Info("remote configuration saved", slog.String("endpoint_url", config.EndpointURL))

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(dto.MapConfigToResponse(config), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
	} else {
		fmt.Fprintf(w, "Saved remote configuration %d for %s (sync every %ds, enabled=%t)\n",
			config.ID, config.EndpointURL, config.SyncIntervalSeconds, config.SyncEnabled)
	}

	return nil
}
