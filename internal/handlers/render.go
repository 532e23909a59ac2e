package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"linkadmin/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashError   = "error"
	flashSuccess = "success"
)

// Flashes are one-shot notifications carried across a redirect in the
// session cookie.
type Flashes struct {
	Error   []string
	Success []string
}

// addFlash stores message in the cookie session. The cookie holds about 4 KB,
// so callers keep messages short.
func (h *Handler) addFlash(c *gin.Context, kind, message string) {
	s := sessions.Default(c)
	s.AddFlash(message, kind)
	if err := s.Save(); err != nil {
		h.logger.Error("Failed to save flash", "kind", kind, "length", len(message), "error", err)
	}
}

func (h *Handler) redirectWithFlash(c *gin.Context, location, kind, message string) {
	h.addFlash(c, kind, message)
	c.Redirect(http.StatusFound, location)
}

func (h *Handler) popFlashes(c *gin.Context) Flashes {
	s := sessions.Default(c)
	f := Flashes{
		Error:   toStrings(s.Flashes(flashError)),
		Success: toStrings(s.Flashes(flashSuccess)),
	}
	if len(f.Error) > 0 || len(f.Success) > 0 {
		if err := s.Save(); err != nil {
			h.logger.Error("Failed to clear flashes", "error", err)
		}
	}
	return f
}

func toStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// render fills the layout fields every page needs. pageErrors are shown
// alongside pending flashes but never stored.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H, pageErrors ...string) {
	if data == nil {
		data = gin.H{}
	}
	flashes := h.popFlashes(c)
	flashes.Error = append(flashes.Error, pageErrors...)

	data["Flashes"] = flashes
	data["Authenticated"] = h.gate.Load(sessions.Default(c)).IsAuthenticated()
	if _, ok := data["Title"]; !ok {
		data["Title"] = "Dashboard"
	}
	if _, ok := data["Active"]; !ok {
		data["Active"] = ""
	}
	c.HTML(status, name, data)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"json": func(v interface{}) template.JS {
			a, _ := json.Marshal(v)
			return template.JS(a)
		},
		"uptime": models.FormatUptime,
		"date":   formatDate,
		"clock":  formatClock,
		"statusClass": func(status string) string {
			return strings.ReplaceAll(strings.ToLower(status), " ", "-")
		},
	}
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		if t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	case *time.Time:
		if t == nil || t.IsZero() {
			return "-"
		}
		return t.Format("2006-01-02")
	}
	return "-"
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}
