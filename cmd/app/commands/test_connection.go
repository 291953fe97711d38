package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	syncUsecase "github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// RunTestConnection checks connectivity and schema of the configured remote.
// A failed check is reported in the output, not as a command error, so the
// exit code distinguishes "could not test" from "tested and unhealthy".
func RunTestConnection(ctx context.Context, configUseCase *syncUsecase.ConfigUseCase, logger *slog.Logger, w io.Writer, format string) error {
	result, err := configUseCase.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("failed to test connection: %w", err)
	}

	if format == "json" {
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(jsonBytes))
		return nil
	}

	if result.Connected && result.TablesExist {
		fmt.Fprintln(w, "Remote is reachable and all required tables exist")
		return nil
	}

	fmt.Fprintf(w, "Connection test failed: %s\n", result.Message)
	if len(result.Missing) > 0 {
		fmt.Fprintf(w, "Missing tables: %s\n", strings.Join(result.Missing, ", "))
	}
	return nil
}
