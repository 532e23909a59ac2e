package handlers

import (
	"html/template"
	"io/fs"
	"net/http"

	"linkadmin/internal/middleware"
	"linkadmin/internal/services"
	"linkadmin/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const sessionName = "linkadmin_session"

func (h *Handler) SetupRouter(rateLimiter *services.IPRateLimiter) *gin.Engine {
	r := gin.New()
	if err := middleware.ConfigureTrustedProxies(r, h.cfg.TrustedProxies); err != nil {
		h.logger.Warn("Ignoring invalid TRUSTED_PROXIES", "error", err)
		_ = middleware.ConfigureTrustedProxies(r, nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(h.RequestLogger())

	tmpl := template.Must(template.New("").Funcs(templateFuncs()).ParseFS(web.Templates, "templates/*.html"))
	r.SetHTMLTemplate(tmpl)

	static, _ := fs.Sub(web.Static, "static")
	r.StaticFS("/static", http.FS(static))

	// Middleware
	if rateLimiter != nil {
		r.Use(middleware.RateLimit(rateLimiter))
	}

	store := cookie.NewStore([]byte(h.cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(h.cfg.SessionMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Public Routes
	r.GET("/login", h.ShowLogin)
	r.POST("/login", h.HandleLoginForm)
	r.POST("/logout", h.LogoutUser)
	r.GET("/", redirectTo("/dashboard/links"))

	// Protected Routes
	authorized := r.Group("/dashboard")
	authorized.Use(h.AuthRequired())
	{
		authorized.GET("", redirectTo("/dashboard/links"))
		authorized.GET("/overview", h.ShowOverview)

		authorized.GET("/links", h.ShowLinks)
		authorized.POST("/links", h.AddLink)
		authorized.POST("/links/bulk", h.BulkAddLinks)
		authorized.POST("/links/:id/delete", h.DeleteLink)
		authorized.GET("/links/:id/qr", h.LinkQR)

		authorized.GET("/users", h.ShowUsers)
		authorized.POST("/users/:id/reset", h.ResetUser)

		authorized.GET("/status", h.ShowStatus)
		authorized.POST("/status/refresh", h.RefreshStatus)
		authorized.GET("/status/ws", h.StatusSocket)
	}

	r.NoRoute(h.NotFound)

	return r
}

func redirectTo(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, location)
	}
}

func (h *Handler) NotFound(c *gin.Context) {
	h.logger.Debug("Route not found", "path", c.Request.URL.Path)
	h.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not Found"})
}
