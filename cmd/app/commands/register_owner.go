package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	accountUsecase "github.com/bkjonathan/sine-shin/internal/account/usecase"
)

// RunRegisterOwner creates the shop owner account. Only one owner can exist.
func RunRegisterOwner(ctx context.Context, accounts *accountUsecase.AccountUseCase, logger *slog.Logger, w io.Writer, name, password string) error {
	account, err := accounts.RegisterOwner(ctx, accountUsecase.RegisterOwnerInput{
		Name:     name,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to register owner: %w", err)
	}

	logger.Info("owner account created", slog.Int64("account_id", account.ID))
	fmt.Fprintf(w, "Owner account %d created for %q\n", account.ID, account.Name)
	return nil
}
