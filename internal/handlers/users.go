package handlers

import (
	"fmt"
	"net/http"

	"linkadmin/internal/apiclient"
	"linkadmin/internal/models"
	"linkadmin/internal/services"

	"github.com/gin-gonic/gin"
)

const usersPath = "/dashboard/users"

func (h *Handler) ShowUsers(c *gin.Context) {
	snapshot, err := h.api.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch users", "error", err)
		h.render(c, http.StatusOK, "users.html", gin.H{
			"Title":  "Users",
			"Active": "users",
			"Users":  []models.User{},
		}, "Failed to fetch users")
		return
	}

	h.render(c, http.StatusOK, "users.html", gin.H{
		"Title":      "Users",
		"Active":     "users",
		"Statistics": snapshot.Statistics,
		"Users":      snapshot.Users,
	})
}

// ResetUser resets one user's quota and redirects back so the list is
// refetched.
func (h *Handler) ResetUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.api.ResetUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.Warn("Failed to reset user", "user_id", userID, "error", err)
		h.redirectWithFlash(c, usersPath, flashError, apiclient.Message(err, "Failed to reset user"))
		return
	}

	h.logAction(c, services.ActionResetUser, userID, map[string]int{"remaining": user.Remaining})
	h.redirectWithFlash(c, usersPath, flashSuccess, fmt.Sprintf("User %s has been reset", userID))
}
