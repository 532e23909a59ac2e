package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"linkadmin/internal/models"
	"linkadmin/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkHandlers(t *testing.T) {
	t.Run("List", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.addLink("https://example.com/a")
		b := newBrowser(t, env.router)
		b.login()

		w := b.get("/dashboard/links")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "https://example.com/a")
		assert.Contains(t, w.Body.String(), "1 total")
	})

	t.Run("List Failure Shows Empty List", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.failLinks = true
		b := newBrowser(t, env.router)
		b.login()

		w := b.get("/dashboard/links")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to fetch links")
		assert.Contains(t, w.Body.String(), "No links found")
	})

	t.Run("Add", func(t *testing.T) {
		env := setupTestHandler(t)
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links", url.Values{"url": {"  https://example.com/new  "}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, linksPath, w.Header().Get("Location"))

		w = b.get("/dashboard/links")
		body := w.Body.String()
		assert.Contains(t, body, "Link added successfully")
		assert.Contains(t, body, "https://example.com/new")
		assert.Eventually(t, countAudit(t, env.db, services.ActionAddLink), time.Second, 10*time.Millisecond)
	})

	t.Run("Add Empty Is Ignored", func(t *testing.T) {
		env := setupTestHandler(t)
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links", url.Values{"url": {"   "}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.NotContains(t, env.api.Requests(), "POST /api/links")
	})

	t.Run("Add Shows Server Message", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.rejectURLs["https://dup.example"] = "Link already exists"
		b := newBrowser(t, env.router)
		b.login()

		b.post("/dashboard/links", url.Values{"url": {"https://dup.example"}})
		w := b.get("/dashboard/links")
		assert.Contains(t, w.Body.String(), "Link already exists")
	})

	t.Run("Flash Shown Once", func(t *testing.T) {
		env := setupTestHandler(t)
		b := newBrowser(t, env.router)
		b.login()

		b.post("/dashboard/links", url.Values{"url": {"https://example.com/once"}})
		assert.Contains(t, b.get("/dashboard/links").Body.String(), "Link added successfully")
		assert.NotContains(t, b.get("/dashboard/links").Body.String(), "Link added successfully")
	})

	t.Run("Delete After Confirmation", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.addLink("https://example.com/gone")
		env.api.addLink("https://example.com/kept")
		b := newBrowser(t, env.router)
		b.login()

		w := b.post(linkPath(1, "/delete"), nil)
		assert.Equal(t, http.StatusFound, w.Code)

		deletes := 0
		for _, r := range env.api.Requests() {
			if r == "DELETE /api/links/1" {
				deletes++
			}
		}
		assert.Equal(t, 1, deletes)

		body := b.get("/dashboard/links").Body.String()
		assert.Contains(t, body, "Link removed successfully")
		assert.NotContains(t, body, "https://example.com/gone")
		assert.Contains(t, body, "https://example.com/kept")
	})

	t.Run("Delete Failure Keeps Link", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.addLink("https://example.com/stays")
		env.api.deleteErr = "Link not found"
		b := newBrowser(t, env.router)
		b.login()

		b.post(linkPath(1, "/delete"), nil)
		body := b.get("/dashboard/links").Body.String()
		assert.Contains(t, body, "Link not found")
		assert.Contains(t, body, "https://example.com/stays")
	})

	t.Run("Delete Invalid ID", func(t *testing.T) {
		env := setupTestHandler(t)
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links/abc/delete", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, b.get("/dashboard/links").Body.String(), "Invalid link ID")
	})

	t.Run("QR Code", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.addLink("https://example.com/qr")
		b := newBrowser(t, env.router)
		b.login()

		w := b.get(linkPath(1, "/qr"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "\x89PNG", w.Body.String()[:4])

		w = b.get(linkPath(1, "/qr?format=svg"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))

		injected := url.Values{
			"format": {"svg"},
			"fg":     {`"/><script>alert(document.domain)</script><rect fill="`},
			"bg":     {`#fff" onload="alert(1)`},
		}
		w = b.get(linkPath(1, "/qr?"+injected.Encode()))
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "<script>")
		assert.NotContains(t, w.Body.String(), "onload")
		assert.Contains(t, w.Body.String(), `<path fill="#000000"`)

		w = b.get(linkPath(99, "/qr"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBulkAddLinks(t *testing.T) {
	t.Run("Partial Failure", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.rejectURLs["https://u2.example"] = "Invalid URL"
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links/bulk", url.Values{"urls": {"https://u1.example\n\n  https://u2.example \nhttps://u3.example\n"}})
		assert.Equal(t, http.StatusFound, w.Code)

		body := b.get("/dashboard/links").Body.String()
		assert.Contains(t, body, "Added 2 links successfully")
		assert.Contains(t, body, "1 links failed: https://u2.example: Invalid URL")
		assert.Contains(t, body, "https://u1.example")
		assert.Contains(t, body, "https://u3.example")
		assert.Eventually(t, countAudit(t, env.db, services.ActionBulkAddFailed), time.Second, 10*time.Millisecond)
		assert.Eventually(t, countAudit(t, env.db, services.ActionBulkAdd), time.Second, 10*time.Millisecond)
	})

	t.Run("All Failed", func(t *testing.T) {
		env := setupTestHandler(t)
		env.api.rejectURLs["https://bad.example"] = "Invalid URL"
		b := newBrowser(t, env.router)
		b.login()

		b.post("/dashboard/links/bulk", url.Values{"urls": {"https://bad.example"}})
		body := b.get("/dashboard/links").Body.String()
		assert.Contains(t, body, "Failed to add bulk links: https://bad.example: Invalid URL")
		assert.NotContains(t, body, "links successfully")
	})

	t.Run("Large All Failed Batch", func(t *testing.T) {
		env := setupTestHandler(t)
		var urls []string
		for i := 0; i < 40; i++ {
			u := fmt.Sprintf("https://rejected-%02d.example.com/%s", i, strings.Repeat("x", 30))
			env.api.rejectURLs[u] = "URL is blocked by the link filter"
			urls = append(urls, u)
		}
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links/bulk", url.Values{"urls": {strings.Join(urls, "\n")}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.NotEmpty(t, w.Result().Cookies(), "the notice must fit in the session cookie")

		body := b.get("/dashboard/links").Body.String()
		assert.Contains(t, body, "Failed to add bulk links: "+urls[0]+": URL is blocked by the link filter")
		assert.Contains(t, body, "and 35 more (see the audit log)")
		assert.NotContains(t, body, urls[39])

		assert.Eventually(t, func() bool {
			var n int64
			env.db.Model(&models.AuditLog{}).Where("action = ?", services.ActionBulkAddFailed).Count(&n)
			return n == 40
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("Blank Input", func(t *testing.T) {
		env := setupTestHandler(t)
		b := newBrowser(t, env.router)
		b.login()

		w := b.post("/dashboard/links/bulk", url.Values{"urls": {"\n  \n"}})
		assert.Equal(t, http.StatusFound, w.Code)
		assert.NotContains(t, env.api.Requests(), "POST /api/links")
	})
}
