package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
)

func TestHandleErrorGin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		statusCode int
		errorCode  string
	}{
		{"not found", apperrors.ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Wrap(apperrors.ErrConflict, "sync in progress"), http.StatusConflict, "conflict"},
		{"invalid input", apperrors.Wrap(apperrors.ErrInvalidInput, "bad url"), http.StatusUnprocessableEntity, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"unavailable", apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"unknown", apperrors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			HandleErrorGin(c, tt.err, nil)

			assert.Equal(t, tt.statusCode, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.errorCode)
		})
	}
}

func TestParseLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(query string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/sessions"+query, nil)
		return c
	}

	limit, err := ParseLimit(newContext(""))
	assert.NoError(t, err)
	assert.Equal(t, 50, limit)

	limit, err = ParseLimit(newContext("?limit=10"))
	assert.NoError(t, err)
	assert.Equal(t, 10, limit)

	_, err = ParseLimit(newContext("?limit=0"))
	assert.Error(t, err)

	_, err = ParseLimit(newContext("?limit=500"))
	assert.Error(t, err)

	_, err = ParseLimit(newContext("?limit=abc"))
	assert.Error(t, err)
}
