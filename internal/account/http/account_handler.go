// Package http provides HTTP handlers for account management.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bkjonathan/sine-shin/internal/account/usecase"
	"github.com/bkjonathan/sine-shin/internal/httputil"
)

// AccountHandler handles HTTP requests for account operations.
type AccountHandler struct {
	accounts *usecase.AccountUseCase
	logger   *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *usecase.AccountUseCase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// RegisterOwnerHandler creates the owner account.
// POST /v1/accounts/owner
func (h *AccountHandler) RegisterOwnerHandler(c *gin.Context) {
	var req usecase.RegisterOwnerInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	account, err := h.accounts.RegisterOwner(c.Request.Context(), req)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// SetMasterSecretHandler configures the master secret after
// re-authenticating with the login password.
// POST /v1/accounts/master-secret
func (h *AccountHandler) SetMasterSecretHandler(c *gin.Context) {
	var req usecase.SetMasterSecretInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.accounts.SetMasterSecret(c.Request.Context(), req); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// VerifyMasterSecretHandler checks a master secret against the stored hash
// without changing any state, so the application shell can confirm the
// secret before offering a destructive operation.
// POST /v1/accounts/master-secret/verify
func (h *AccountHandler) VerifyMasterSecretHandler(c *gin.Context) {
	var req struct {
		MasterSecret string `json:"master_secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.accounts.VerifyMasterSecret(c.Request.Context(), req.MasterSecret); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}
