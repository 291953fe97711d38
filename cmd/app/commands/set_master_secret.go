package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accountUsecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
)

// RunSetMasterSecret configures the master secret after re-authenticating
// with the owner's login password.
func RunSetMasterSecret(ctx context.Context, accounts *accountUsecase.AccountUseCase, logger *slog.Logger, w io.Writer, password, masterSecret string) error {
	err := accounts.SetMasterSecret(ctx, accountUsecase.SetMasterSecretInput{
		Password:     password,
		MasterSecret: masterSecret,
	})
	if err != nil {
		return fmt.Errorf("failed to set master secret: %w", err)
	}

	logger.Info("master secret configured")
	fmt.Fprintln(w, "Master secret configured")
	return nil
}
