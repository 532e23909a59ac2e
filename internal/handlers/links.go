package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"linkadmin/internal/apiclient"
	"linkadmin/internal/models"
	"linkadmin/internal/services"
	"linkadmin/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	linksPath = "/dashboard/links"

	// Bulk failure notices travel in the session cookie, so only the first
	// few diagnostics are shown. Every failure has its own audit entry.
	maxNoticeDiagnostics = 5
	maxDiagnosticLength  = 120
)

func (h *Handler) ShowLinks(c *gin.Context) {
	links, err := h.api.ListLinks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch links", "error", err)
		h.render(c, http.StatusOK, "links.html", gin.H{
			"Title":  "Links",
			"Active": "links",
			"Links":  []models.Link{},
		}, "Failed to fetch links")
		return
	}

	h.render(c, http.StatusOK, "links.html", gin.H{
		"Title":  "Links",
		"Active": "links",
		"Links":  links,
	})
}

func (h *Handler) AddLink(c *gin.Context) {
	url := strings.TrimSpace(c.PostForm("url"))
	if url == "" {
		c.Redirect(http.StatusFound, linksPath)
		return
	}

	link, err := h.api.AddLink(c.Request.Context(), url)
	if err != nil {
		h.logger.Warn("Failed to add link", "url", url, "error", err)
		h.redirectWithFlash(c, linksPath, flashError, apiclient.Message(err, "Failed to add link"))
		return
	}

	h.logAction(c, services.ActionAddLink, strconv.FormatInt(link.ID, 10), map[string]string{"url": link.URL})
	h.redirectWithFlash(c, linksPath, flashSuccess, "Link added successfully")
}

func (h *Handler) BulkAddLinks(c *gin.Context) {
	urls := utils.SplitLines(c.PostForm("urls"))
	if len(urls) == 0 {
		c.Redirect(http.StatusFound, linksPath)
		return
	}

	result := h.api.AddBulkLinks(c.Request.Context(), urls)
	added := result.Links()
	diagnostics := result.Diagnostics()

	for _, f := range result.Failures() {
		h.logAction(c, services.ActionBulkAddFailed, f.URL, map[string]string{
			"reason": apiclient.Message(f.Err, "request failed"),
		})
	}
	h.logAction(c, services.ActionBulkAdd, "", map[string]int{
		"added":  len(added),
		"failed": len(diagnostics),
	})

	if result.AllFailed() {
		h.addFlash(c, flashError, "Failed to add bulk links: "+summarizeDiagnostics(diagnostics))
		c.Redirect(http.StatusFound, linksPath)
		return
	}

	h.addFlash(c, flashSuccess, fmt.Sprintf("Added %d links successfully", len(added)))
	if len(diagnostics) > 0 {
		h.addFlash(c, flashError, fmt.Sprintf("%d links failed: %s", len(diagnostics), summarizeDiagnostics(diagnostics)))
	}
	c.Redirect(http.StatusFound, linksPath)
}

func summarizeDiagnostics(diagnostics []string) string {
	shown := diagnostics
	if len(shown) > maxNoticeDiagnostics {
		shown = shown[:maxNoticeDiagnostics]
	}

	parts := make([]string, 0, len(shown)+1)
	for _, d := range shown {
		if r := []rune(d); len(r) > maxDiagnosticLength {
			d = string(r[:maxDiagnosticLength]) + "..."
		}
		parts = append(parts, d)
	}
	if rest := len(diagnostics) - len(shown); rest > 0 {
		parts = append(parts, fmt.Sprintf("and %d more (see the audit log)", rest))
	}
	return strings.Join(parts, "; ")
}

// DeleteLink asks the server to remove a link. The list is refetched after
// the redirect, so a link only disappears once the server confirmed it.
func (h *Handler) DeleteLink(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.redirectWithFlash(c, linksPath, flashError, "Invalid link ID")
		return
	}

	if err := h.api.RemoveLink(c.Request.Context(), id); err != nil {
		h.logger.Warn("Failed to remove link", "id", id, "error", err)
		h.redirectWithFlash(c, linksPath, flashError, apiclient.Message(err, "Failed to remove link"))
		return
	}

	h.logAction(c, services.ActionDeleteLink, strconv.FormatInt(id, 10), nil)
	h.redirectWithFlash(c, linksPath, flashSuccess, "Link removed successfully")
}

func (h *Handler) LinkQR(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.NotFound(c)
		return
	}

	links, err := h.api.ListLinks(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to fetch links", "error", err)
		c.String(http.StatusBadGateway, "Failed to fetch links")
		return
	}

	var target *models.Link
	for i := range links {
		if links[i].ID == id {
			target = &links[i]
			break
		}
	}
	if target == nil {
		h.NotFound(c)
		return
	}

	opts := services.QROptions{
		Content: target.URL,
		FgColor: c.Query("fg"),
		BgColor: c.Query("bg"),
	}
	if size, err := strconv.Atoi(c.Query("size")); err == nil {
		opts.Size = size
	}

	if c.Query("format") == "svg" {
		svg, err := h.qr.GenerateSVG(opts)
		if err != nil {
			c.String(http.StatusInternalServerError, "Failed to generate QR code")
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
		return
	}

	png, err := h.qr.GeneratePNG(opts)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
