package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	accounthttp "github.com/bkjonathan/sine-shin/internal/account/http"
	"github.com/bkjonathan/sine-shin/internal/config"
	synchttp "github.com/bkjonathan/sine-shin/internal/sync/http"
)

// Server is the admin API server. It fronts the sync engine for the local
// application shell: configuration, manual sync, queue inspection, and the
// secret-gated maintenance operations.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates the admin API server with all routes registered.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	syncHandler *synchttp.SyncHandler,
	accountHandler *accounthttp.AccountHandler,
) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}
	if cfg.RateLimitEnabled {
		router.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler)

	v1 := router.Group("/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/owner", accountHandler.RegisterOwnerHandler)
			accounts.POST("/master-secret", accountHandler.SetMasterSecretHandler)
			accounts.POST("/master-secret/verify", accountHandler.VerifyMasterSecretHandler)
		}

		sync := v1.Group("/sync")
		{
			sync.GET("/config", syncHandler.GetConfigHandler)
			sync.POST("/config", syncHandler.SaveConfigHandler)
			sync.PATCH("/config/interval", syncHandler.UpdateIntervalHandler)
			sync.PATCH("/config/enabled", syncHandler.SetEnabledHandler)
			sync.GET("/config/test", syncHandler.TestConnectionHandler)

			sync.POST("/run", syncHandler.RunHandler)
			sync.GET("/stats", syncHandler.StatsHandler)
			sync.GET("/sessions", syncHandler.ListSessionsHandler)
			sync.GET("/queue", syncHandler.ListQueueHandler)

			sync.POST("/retry-failed", syncHandler.RetryFailedHandler)
			sync.POST("/clear-synced", syncHandler.ClearSyncedHandler)
			sync.POST("/clean", syncHandler.CleanHandler)

			sync.POST("/resync", syncHandler.ResyncHandler)
			sync.POST("/rotate", syncHandler.RotateHandler)
		}
	}

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
