package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthAndReadiness(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "healthy")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "ready")
}

func TestCustomLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(CustomLoggerMiddleware(slog.Default()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitMiddleware(1, 2, slog.Default()))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// burst of 2 allowed, third request rejected
	for i := 0; i < 2; i++ {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.NotEmpty(t, recorder.Header().Get("Retry-After"))
}

func TestCreateCORSMiddleware(t *testing.T) {
	logger := slog.Default()

	assert.Nil(t, createCORSMiddleware(false, "https://app.local", logger))
	assert.Nil(t, createCORSMiddleware(true, "", logger))
	assert.NotNil(t, createCORSMiddleware(true, "https://app.local", logger))
}

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"https://a.local", "https://b.local"}, parseOrigins(" https://a.local , https://b.local ,"))
}

func TestMetricsServerHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := NewMetricsServer("127.0.0.1", 0, slog.Default(), nil)
	recorder := httptest.NewRecorder()
	server.GetHandler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code, "no provider means no metrics route")
}

func TestRateLimiterStoreCleanup(t *testing.T) {
	store := &rateLimiterStore{rps: 1, burst: 1}
	limiter := store.getLimiter("10.0.0.1")
	require.NotNil(t, limiter)

	// the same IP reuses its limiter
	assert.Same(t, limiter, store.getLimiter("10.0.0.1"))

	val, ok := store.limiters.Load("10.0.0.1")
	require.True(t, ok)
	entry := val.(*rateLimiterEntry)
	entry.mu.Lock()
	entry.lastAccess = time.Now().Add(-2 * time.Hour)
	entry.mu.Unlock()

	// simulate one cleanup pass
	threshold := time.Now().Add(-1 * time.Hour)
	store.limiters.Range(func(key, value interface{}) bool {
		e := value.(*rateLimiterEntry)
		if e.lastAccess.Before(threshold) {
			store.limiters.Delete(key)
		}
		return true
	})

	_, ok = store.limiters.Load("10.0.0.1")
	assert.False(t, ok)
}
