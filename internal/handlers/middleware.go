package handlers

import (
	"net/http"
	"strings"
	"time"

	"linkadmin/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// AuthRequired lets only Authenticated sessions through. Anonymous page
// requests are redirected to the login view; the websocket endpoint gets a
// plain 401.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.gate.Load(sessions.Default(c)).IsAuthenticated() {
			c.Next()
			return
		}

		if strings.HasSuffix(c.Request.URL.Path, "/ws") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
		}
		c.Abort()
	}
}

func (h *Handler) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", middleware.ClientIP(c),
			"request_id", middleware.GetRequestID(c),
		)
	}
}
