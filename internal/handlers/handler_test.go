package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"linkadmin/internal/apiclient"
	"linkadmin/internal/config"
	"linkadmin/internal/models"
	"linkadmin/internal/services"
	"linkadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testUsername = "admin"
	testPassword = "secret"
)

// fakeAPI is an in-memory stand-in for the remote link service.
type fakeAPI struct {
	mu       sync.Mutex
	links    []models.Link
	nextID   int64
	users    []models.User
	requests []string

	failLinks  bool
	failStats  bool
	healthDown bool
	rejectURLs map[string]string
	deleteErr  string
}

func newFakeAPI() *fakeAPI {
	now := time.Now()
	return &fakeAPI{
		nextID: 1,
		users: []models.User{
			{UserID: "u1", Remaining: 0, LinksGiven: 5, FirstUsed: &now},
			{UserID: "u2", Remaining: 3, LinksGiven: 2},
		},
		rejectURLs: map[string]string{},
	}
}

func (f *fakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeAPI) addLink(u string) models.Link {
	l := models.Link{ID: f.nextID, URL: u, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.nextID++
	f.links = append(f.links, l)
	return l
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/links":
		if f.failLinks {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"links": f.links})

	case r.Method == http.MethodPost && r.URL.Path == "/api/links":
		var body struct {
			URL string `json:"url"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if reason, ok := f.rejectURLs[body.URL]; ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": reason})
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"link": f.addLink(body.URL)})

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/links/"):
		if f.deleteErr != "" {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": f.deleteErr})
			return
		}
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/links/"), 10, 64)
		for i, l := range f.links {
			if l.ID == id {
				f.links = append(f.links[:i], f.links[i+1:]...)
				break
			}
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})

	case r.Method == http.MethodGet && r.URL.Path == "/api/users":
		writeJSON(w, http.StatusOK, models.UsersSnapshot{
			Statistics: models.UserStats{TotalUsers: len(f.users), TotalLinksDispensed: 7, ActiveUsers: 2, UsersAtLimit: 1},
			Users:      f.users,
		})

	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/users/"):
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/reset")
		for i := range f.users {
			if f.users[i].UserID == id {
				f.users[i].Remaining = 10
				f.users[i].LinksGiven = 0
				writeJSON(w, http.StatusOK, map[string]any{"user": f.users[i]})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "User not found"})

	case r.Method == http.MethodGet && r.URL.Path == "/api/stats":
		if f.failStats {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"statistics": models.Stats{
			TotalLinks: len(f.links), TotalUsers: len(f.users), TotalLinksDispensed: 7, ActiveUsers: 2, AverageLinksPerUser: "3.50",
		}})

	case r.Method == http.MethodGet && r.URL.Path == "/api/health":
		if f.healthDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, models.HealthStatus{Success: true, Message: "API is running", Timestamp: time.Now(), Uptime: 3720})

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testEnv struct {
	h      *Handler
	router *gin.Engine
	api    *fakeAPI
	db     *gorm.DB
}

func setupTestHandler(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.AuditLog{}))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.Config{
		AppEnv:            "test",
		SessionSecret:     "test-secret-12345678901234567890123456789012",
		SessionMaxAge:     time.Hour,
		HealthInterval:    30 * time.Second,
		HealthHistorySize: 20,
	}

	fake := newFakeAPI()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	api := apiclient.New(srv.URL, "test-key", apiclient.WithLogger(log))
	gate := session.NewGate(session.StaticCredentials{Username: testUsername, Password: testPassword}, log)
	monitor := services.NewHealthMonitor(api, nil, log, cfg.HealthInterval)
	audit := services.NewAuditService(db, log)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go audit.Start(ctx)

	h := NewHandler(cfg, log, api, gate, monitor, audit, services.NewQRService())
	return &testEnv{h: h, router: h.SetupRouter(nil), api: fake, db: db}
}

// browser replays the cookies the router hands out, like a real client.
type browser struct {
	t       *testing.T
	router  http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, router http.Handler) *browser {
	return &browser{t: t, router: router, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	b.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return b.do(http.MethodPost, path, form)
}

func (b *browser) login() {
	b.t.Helper()
	w := b.post("/login", url.Values{"username": {testUsername}, "password": {testPassword}})
	require.Equal(b.t, http.StatusFound, w.Code)
	require.Equal(b.t, "/dashboard", w.Header().Get("Location"))
}

func countAudit(t *testing.T, db *gorm.DB, action string) func() bool {
	return func() bool {
		var n int64
		db.Model(&models.AuditLog{}).Where("action = ?", action).Count(&n)
		return n > 0
	}
}

func linkPath(id int64, suffix string) string {
	return fmt.Sprintf("/dashboard/links/%d%s", id, suffix)
}
