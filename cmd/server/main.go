package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"linkadmin/internal/apiclient"
	"linkadmin/internal/config"
	"linkadmin/internal/handlers"
	"linkadmin/internal/repository"
	"linkadmin/internal/services"
	"linkadmin/internal/session"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func Run(ctx context.Context) error {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Setup Logger
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// 3. Initialize Database
	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		logger.Info("Running database migrations...")
		if err := repository.RunMigrations(cfg.DatabaseURL, ""); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// 4. Health history: Redis when reachable, memory otherwise
	var history services.HistoryStore
	if cfg.RedisURL != "" {
		rdb, err := repository.InitRedis(cfg.RedisURL, cfg.RedisPassword, 0)
		if err != nil {
			logger.Warn("Failed to connect to Redis, keeping health history in memory", "error", err)
		} else {
			defer rdb.Close()
			history = services.NewRedisHistory(rdb, services.DefaultHistoryKey, cfg.HealthHistorySize)
		}
	}
	if history == nil {
		history = services.NewMemoryHistory(cfg.HealthHistorySize)
	}

	// 5. Initialize Services
	api := apiclient.New(cfg.APIBaseURL, cfg.APIKey,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger),
		apiclient.WithBulkConcurrency(cfg.BulkConcurrency),
	)

	auth, err := newAuthenticator(cfg, logger)
	if err != nil {
		return err
	}
	gate := session.NewGate(auth, logger)

	auditService := services.NewAuditService(db, logger)
	healthMonitor := services.NewHealthMonitor(api, history, logger, cfg.HealthInterval)
	qrService := services.NewQRService()
	rateLimiter := services.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, logger)

	// 6. Initialize Handler
	h := handlers.NewHandler(cfg, logger, api, gate, healthMonitor, auditService, qrService)

	// 7. Setup Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := h.SetupRouter(rateLimiter)

	// 8. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Background Context for workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	// Start Background Workers
	auditDone := make(chan struct{})
	go func() {
		defer close(auditDone)
		auditService.Start(workerCtx)
	}()
	go healthMonitor.Start(workerCtx)
	rateLimiter.StartCleanup(workerCtx, 10*time.Minute)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "api", api.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for context cancellation or server error
	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	workerCancel()
	select {
	case <-auditDone:
	case <-shutdownCtx.Done():
		logger.Warn("Audit worker did not drain in time")
	}

	logger.Info("Server exiting")
	return nil
}

// newAuthenticator prefers a bcrypt hash, then a plain password. Only
// non-production environments fall back to the development pair.
func newAuthenticator(cfg config.Config, logger *slog.Logger) (session.Authenticator, error) {
	switch {
	case cfg.AdminUsername != "" && cfg.AdminPasswordHash != "":
		return session.HashedCredentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}, nil
	case cfg.AdminUsername != "" && cfg.AdminPassword != "":
		return session.StaticCredentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword}, nil
	case cfg.IsProduction():
		return nil, errors.New("admin credentials are required in production")
	default:
		logger.Warn("No admin credentials configured, using development defaults")
		return session.DefaultCredentials(), nil
	}
}
