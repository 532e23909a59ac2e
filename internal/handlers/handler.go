package handlers

import (
	"log/slog"

	"linkadmin/internal/apiclient"
	"linkadmin/internal/config"
	"linkadmin/internal/middleware"
	"linkadmin/internal/services"
	"linkadmin/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg    config.Config
	logger *slog.Logger
	api    *apiclient.Client
	gate   *session.Gate
	health *services.HealthMonitor
	audit  *services.AuditService
	qr     *services.QRService
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	api *apiclient.Client,
	gate *session.Gate,
	health *services.HealthMonitor,
	audit *services.AuditService,
	qr *services.QRService,
) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger,
		api:    api,
		gate:   gate,
		health: health,
		audit:  audit,
		qr:     qr,
	}
}

func (h *Handler) logAction(c *gin.Context, action, entityID string, details any) {
	h.audit.LogAction(services.AuditEntry{
		Action:    action,
		EntityID:  entityID,
		Details:   details,
		IPAddress: middleware.ClientIP(c),
		UserAgent: c.Request.UserAgent(),
		RequestID: middleware.GetRequestID(c),
	})
}
