package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"linkadmin/internal/config"
	"linkadmin/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the audit store. SQLite databases are migrated in place with
// AutoMigrate; Postgres schemas are owned by RunMigrations.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	var dialer gorm.Dialector
	isSQLite := false
	switch {
	case strings.HasPrefix(cfg.DatabaseURL, "postgres"):
		dialer = postgres.Open(cfg.DatabaseURL)
	case strings.HasPrefix(cfg.DatabaseURL, "sqlite://"):
		dialer = sqlite.Open(strings.TrimPrefix(cfg.DatabaseURL, "sqlite://"))
		isSQLite = true
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.DatabaseURL)
	}

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialer, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access database handle: %w", err)
		}
		// SQLite serialises writers anyway, and an in-memory database only
		// exists on the connection that created it.
		sqlDB.SetMaxOpenConns(1)

		if err := db.AutoMigrate(&models.AuditLog{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	return db, nil
}

func RunMigrations(databaseURL string, sourcePath string) error {
	if sourcePath == "" {
		sourcePath = "file://migration"
	}
	m, err := migrate.New(
		sourcePath,
		databaseURL,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run up migrations: %w", err)
	}

	slog.Info("Database migrations ran successfully")
	return nil
}
