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

// RunShowConfig prints the active remote configuration with masked keys.
func RunShowConfig(ctx context.Context, configUseCase *syncUsecase.ConfigUseCase, logger *slog.Logger, w io.Writer, format string) error {
	config, err := configUseCase.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to get remote configuration: %w", err)
	}

	masked := dto.MapConfigToResponse(config)

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(masked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
		return nil
	}

	fmt.Fprintf(w, "Remote configuration %d:\n", masked.ID)
	fmt.Fprintf(w, "  endpoint:    %s\n", masked.EndpointURL)
	fmt.Fprintf(w, "  anon key:    %s\n", masked.AnonKey)
	fmt.Fprintf(w, "  service key: %s\n", masked.ServiceKey)
	fmt.Fprintf(w, "  interval:    %ds\n", masked.SyncIntervalSeconds)
	fmt.Fprintf(w, "  enabled:     %t\n", masked.SyncEnabled)
	return nil
}
