package handlers

import (
	"net/http"

	"linkadmin/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowLogin(c *gin.Context) {
	if h.gate.Load(sessions.Default(c)).IsAuthenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Username": ""})
}

func (h *Handler) HandleLoginForm(c *gin.Context) {
	s := h.gate.Load(sessions.Default(c))
	if s.IsAuthenticated() {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	username := c.PostForm("username")
	password := c.PostForm("password")

	ok, err := s.Login(username, password)
	if err != nil {
		h.logger.Error("Failed to save session", "error", err)
		h.render(c, http.StatusInternalServerError, "login.html", gin.H{
			"Title":    "Login",
			"Error":    "Login failed. Please try again.",
			"Username": username,
		})
		return
	}
	if !ok {
		h.logAction(c, services.ActionLoginFailed, username, nil)
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title":    "Login",
			"Error":    "Invalid username or password",
			"Username": username,
		})
		return
	}

	h.logAction(c, services.ActionLogin, username, nil)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) LogoutUser(c *gin.Context) {
	s := h.gate.Load(sessions.Default(c))
	wasAuthenticated := s.IsAuthenticated()
	if err := s.Logout(); err != nil {
		h.logger.Error("Failed to clear session", "error", err)
	}
	if wasAuthenticated {
		h.logAction(c, services.ActionLogout, "", nil)
	}
	c.Redirect(http.StatusFound, "/login")
}
