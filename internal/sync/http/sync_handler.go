// Package http provides HTTP handlers for the sync admin API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/bkjonathan/sine-shin/internal/errors"
	"github.com/bkjonathan/sine-shin/internal/httputil"
	outboxdomain "github.com/bkjonathan/sine-shin/internal/outbox/domain"
	syncdomain "github.com/bkjonathan/sine-shin/internal/sync/domain"
	"github.com/bkjonathan/sine-shin/internal/sync/http/dto"
	"github.com/bkjonathan/sine-shin/internal/sync/usecase"
)

// SyncHandler handles HTTP requests for the synchronization engine.
type SyncHandler struct {
	config *usecase.ConfigUseCase
	runner *usecase.Runner
	admin  *usecase.AdminUseCase
	resync *usecase.ResyncUseCase
	logger *slog.Logger
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(
	config *usecase.ConfigUseCase,
	runner *usecase.Runner,
	admin *usecase.AdminUseCase,
	resync *usecase.ResyncUseCase,
	logger *slog.Logger,
) *SyncHandler {
	return &SyncHandler{
		config: config,
		runner: runner,
		admin:  admin,
		resync: resync,
		logger: logger,
	}
}

// GetConfigHandler returns the active remote configuration with masked keys.
// GET /v1/sync/config
func (h *SyncHandler) GetConfigHandler(c *gin.Context) {
	config, err := h.config.Get(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapConfigToResponse(config))
}

// SaveConfigHandler stores a new active remote configuration.
// POST /v1/sync/config
func (h *SyncHandler) SaveConfigHandler(c *gin.Context) {
	var req dto.SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	config, err := h.config.Save(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusCreated, dto.MapConfigToResponse(config))
}

// UpdateIntervalHandler changes the sync cadence.
// PATCH /v1/sync/config/interval
func (h *SyncHandler) UpdateIntervalHandler(c *gin.Context) {
	var req dto.UpdateIntervalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.config.UpdateInterval(c.Request.Context(), req.Seconds); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetEnabledHandler toggles background syncing.
// PATCH /v1/sync/config/enabled
func (h *SyncHandler) SetEnabledHandler(c *gin.Context) {
	var req dto.SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.config.SetSyncEnabled(c.Request.Context(), req.Enabled); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.Status(http.StatusNoContent)
}

// TestConnectionHandler probes the remote endpoint.
// GET /v1/sync/config/test
func (h *SyncHandler) TestConnectionHandler(c *gin.Context) {
	result, err := h.config.TestConnection(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunHandler starts a sync session in the background and returns without
// waiting for the drain: a large queue means one remote round-trip per entry.
// Session outcomes land in GET /v1/sync/sessions.
// POST /v1/sync/run
func (h *SyncHandler) RunHandler(c *gin.Context) {
	if _, err := h.config.Get(c.Request.Context()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	if h.runner.Running() {
		httputil.HandleErrorGin(c, syncdomain.ErrSyncInProgress, h.logger)
		return
	}

	go func() {
		session, err := h.runner.RunSession(context.Background())
		if err != nil {
			// two triggers racing past the Running check coalesce here
			if apperrors.Is(err, syncdomain.ErrSyncInProgress) {
				h.logger.Info("sync trigger coalesced with a running session")
				return
			}
			h.logger.Warn("triggered sync session failed", slog.Any("error", err))
			return
		}
		h.logger.Info("triggered sync session finished",
			slog.Int64("session_id", session.ID),
			slog.Int64("total_synced", session.TotalSynced),
			slog.Int64("total_failed", session.TotalFailed),
		)
	}()

	c.JSON(http.StatusAccepted, dto.MessageResponse{Message: "sync session started"})
}

// StatsHandler returns outbox entry counts grouped by status.
// GET /v1/sync/stats
func (h *SyncHandler) StatsHandler(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListSessionsHandler returns recent sync sessions.
// GET /v1/sync/sessions?limit=N
func (h *SyncHandler) ListSessionsHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	sessions, err := h.admin.Sessions(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapSessionsToResponse(sessions))
}

// ListQueueHandler returns outbox entries, optionally filtered by status.
// GET /v1/sync/queue?status=failed&limit=N
func (h *SyncHandler) ListQueueHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var status *outboxdomain.Status
	if raw := c.Query("status"); raw != "" {
		s := outboxdomain.Status(raw)
		status = &s
	}

	entries, err := h.admin.Queue(c.Request.Context(), status, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapEntriesToResponse(entries))
}

// RetryFailedHandler requeues every failed entry.
// POST /v1/sync/retry-failed
func (h *SyncHandler) RetryFailedHandler(c *gin.Context) {
	count, err := h.admin.RetryFailed(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// ClearSyncedHandler removes delivered entries, optionally only those older
// than the given number of days.
// POST /v1/sync/clear-synced?days=N
func (h *SyncHandler) ClearSyncedHandler(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httputil.HandleBadRequestGin(c, err, h.logger)
			return
		}
		days = parsed
	}

	count, err := h.admin.ClearSynced(c.Request.Context(), days)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.CountResponse{Count: count})
}

// CleanHandler removes delivered entries and finished sessions.
// POST /v1/sync/clean
func (h *SyncHandler) CleanHandler(c *gin.Context) {
	result, err := h.admin.CleanAll(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ResyncHandler rebuilds the outbox from full table snapshots. Gated on the
// master secret.
// POST /v1/sync/resync
func (h *SyncHandler) ResyncHandler(c *gin.Context) {
	var req dto.ResyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	queued, err := h.resync.FullResync(c.Request.Context(), req.MasterSecret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.ResyncResponse{EntriesQueued: queued})
}

// RotateHandler swaps the remote credentials and queues a full resync.
// Gated on the master secret.
// POST /v1/sync/rotate
func (h *SyncHandler) RotateHandler(c *gin.Context) {
	var req dto.RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	config, queued, err := h.resync.RotateCredentials(c.Request.Context(), req.MasterSecret, req.Config.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.RotateResponse{
		Config:        dto.MapConfigToResponse(config),
		EntriesQueued: queued,
	})
}
