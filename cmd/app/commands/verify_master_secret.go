package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accountUsecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
)

// RunVerifyMasterSecret checks a master secret against the stored hash
// without changing anything.
func RunVerifyMasterSecret(ctx context.Context, accounts *accountUsecase.AccountUseCase, logger *slog.Logger, w io.Writer, masterSecret string) error {
	if err := accounts.VerifyMasterSecret(ctx, masterSecret); err != nil {
		return fmt.Errorf("master secret verification failed: %w", err)
	}

	logger.Info("master secret verified")
	fmt.Fprintln(w, "Master secret is valid")
	return nil
}
