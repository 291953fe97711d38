package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bkjonathan/sine-shin/internal/account/repository"
	"github.com/bkjonathan/sine-shin/internal/account/usecase"
	"github.com/bkjonathan/sine-shin/internal/testutil"
)

func newAccountRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.SetupSQLiteDB(t)
	t.Cleanup(func() { testutil.TeardownDB(t, db) })

	accounts, err := usecase.NewAccountUseCase(repository.NewSQLiteAccountRepository(db))
	require.NoError(t, err)

	handler := NewAccountHandler(accounts, slog.Default())

	router := gin.New()
	router.POST("/v1/accounts/owner", handler.RegisterOwnerHandler)
	router.POST("/v1/accounts/master-secret", handler.SetMasterSecretHandler)
	router.POST("/v1/accounts/master-secret/verify", handler.VerifyMasterSecretHandler)
	return router
}

func post(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestVerifyMasterSecretEndpoint(t *testing.T) {
	router := newAccountRouter(t)

	recorder := post(t, router, "/v1/accounts/owner", map[string]string{
		"name":     "Thiri",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, recorder.Code)

	recorder = post(t, router, "/v1/accounts/master-secret", map[string]string{
		"password":      "correct-horse",
		"master_secret": "shop-secret",
	})
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = post(t, router, "/v1/accounts/master-secret/verify", map[string]string{
		"master_secret": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = post(t, router, "/v1/accounts/master-secret/verify", map[string]string{
		"master_secret": "shop-secret",
	})
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}
