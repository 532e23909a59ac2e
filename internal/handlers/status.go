package handlers

import (
	"net/http"
	"time"

	"linkadmin/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	statusPath = "/dashboard/status"

	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingPeriod   = (pongTimeout * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// statusMessage is the websocket payload for one applied probe.
type statusMessage struct {
	models.HealthStatus
	UptimeText string `json:"uptimeText"`
}

func newStatusMessage(s models.HealthStatus) statusMessage {
	return statusMessage{HealthStatus: s, UptimeText: models.FormatUptime(s.Uptime)}
}

func (h *Handler) ShowStatus(c *gin.Context) {
	ctx := c.Request.Context()

	latest, ok := h.health.Latest()
	if !ok {
		latest = h.health.Check(ctx)
	}

	history, err := h.health.History(ctx, h.cfg.HealthHistorySize)
	if err != nil {
		h.logger.Warn("Failed to load health history", "error", err)
	}

	h.render(c, http.StatusOK, "status.html", gin.H{
		"Title":    "Status",
		"Active":   "status",
		"Health":   &latest,
		"History":  history,
		"BaseURL":  h.api.BaseURL(),
		"Interval": h.cfg.HealthInterval,
	})
}

func (h *Handler) RefreshStatus(c *gin.Context) {
	status := h.health.Refresh(c.Request.Context())
	if !status.Success {
		h.redirectWithFlash(c, statusPath, flashError, "Failed to check API health: "+status.Message)
		return
	}
	h.redirectWithFlash(c, statusPath, flashSuccess, "Health check completed")
}

// StatusSocket pushes every applied probe to the browser until either side
// goes away.
func (h *Handler) StatusSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.health.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if latest, ok := h.health.Latest(); ok {
		if err := h.writeStatus(conn, latest); err != nil {
			return
		}
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case status := <-updates:
			if err := h.writeStatus(conn, status); err != nil {
				h.logger.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Handler) writeStatus(conn *websocket.Conn, status models.HealthStatus) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(newStatusMessage(status))
}
