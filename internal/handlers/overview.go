package handlers

import (
	"net/http"

	"linkadmin/internal/models"

	"github.com/gin-gonic/gin"
)

const recentActivityLimit = 10

func (h *Handler) ShowOverview(c *gin.Context) {
	data := gin.H{
		"Title":  "Overview",
		"Active": "overview",
		"Stats":  models.Stats{},
	}

	activity, err := h.audit.Recent(recentActivityLimit)
	if err != nil {
		h.logger.Error("Failed to load audit log", "error", err)
		activity = []models.AuditLog{}
	}
	data["Activity"] = activity

	stats, err := h.api.GetStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch stats", "error", err)
		data["HasStats"] = false
		h.render(c, http.StatusOK, "overview.html", data, "Failed to fetch statistics")
		return
	}

	data["Stats"] = stats
	data["HasStats"] = true
	h.render(c, http.StatusOK, "overview.html", data)
}
