// Package http provides the admin API server and its middleware.
package http

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// CustomLoggerMiddleware logs HTTP requests with structured logging.
func CustomLoggerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		logger.Info("http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("request_id", requestid.Get(c)),
		)
	}
}

// healthHandler reports liveness.
func healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{"status": "healthy"})
}

// readinessHandler reports readiness, flipping to unavailable once the
// server context is canceled.
func readinessHandler(c *gin.Context) {
	select {
	case <-c.Request.Context().Done():
		c.JSON(503, gin.H{"status": "not ready"})
	default:
		c.JSON(200, gin.H{"status": "ready"})
	}
}
