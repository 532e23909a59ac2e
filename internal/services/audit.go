package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"linkadmin/internal/models"

	"github.com/mssola/user_agent"
	"gorm.io/gorm"
)

const (
	ActionLogin         = "LOGIN"
	ActionLoginFailed   = "LOGIN_FAILED"
	ActionLogout        = "LOGOUT"
	ActionAddLink       = "ADD_LINK"
	ActionBulkAdd       = "BULK_ADD"
	ActionBulkAddFailed = "BULK_ADD_FAILED"
	ActionDeleteLink    = "DELETE_LINK"
	ActionResetUser     = "RESET_USER"
)

// AuditEntry is what callers hand to LogAction; Details is stored as JSON.
type AuditEntry struct {
	Action    string
	EntityID  string
	Details   any
	IPAddress string
	UserAgent string // raw header, summarised before storing
	RequestID string
}

type AuditService struct {
	db      *gorm.DB
	logger  *slog.Logger
	entries chan models.AuditLog
	now     func() time.Time
}

func NewAuditService(db *gorm.DB, logger *slog.Logger) *AuditService {
	return &AuditService{
		db:      db,
		logger:  logger,
		entries: make(chan models.AuditLog, 100),
		now:     time.Now,
	}
}

func (s *AuditService) Start(ctx context.Context) {
	s.logger.Info("Audit worker starting")
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		case <-ctx.Done():
			s.drain()
			s.logger.Info("Audit worker stopping")
			return
		}
	}
}

func (s *AuditService) drain() {
	for {
		select {
		case entry := <-s.entries:
			s.write(entry)
		default:
			return
		}
	}
}

func (s *AuditService) write(entry models.AuditLog) {
	if err := s.db.Create(&entry).Error; err != nil {
		s.logger.Error("Failed to write audit log", "action", entry.Action, "error", err)
	}
}

// LogAction queues an entry without blocking. Entries are dropped when the
// queue is full.
func (s *AuditService) LogAction(e AuditEntry) {
	var details string
	if e.Details != nil {
		b, err := json.Marshal(e.Details)
		if err != nil {
			s.logger.Warn("Audit details not encodable", "action", e.Action, "error", err)
		} else {
			details = string(b)
		}
	}

	entry := models.AuditLog{
		Action:    e.Action,
		EntityID:  truncate(e.EntityID, 255),
		Details:   details,
		IPAddress: e.IPAddress,
		UserAgent: SummarizeUserAgent(e.UserAgent),
		RequestID: e.RequestID,
		Timestamp: s.now(),
	}

	select {
	case s.entries <- entry:
	default:
		s.logger.Warn("Audit channel full, dropping log", "action", e.Action)
	}
}

// Recent returns the newest entries first.
func (s *AuditService) Recent(limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := s.db.Order("timestamp desc").Order("id desc").Limit(limit).Find(&logs).Error
	return logs, err
}

// SummarizeUserAgent reduces a User-Agent header to "Browser Version / OS".
func SummarizeUserAgent(raw string) string {
	if raw == "" {
		return ""
	}
	ua := user_agent.New(raw)
	name, version := ua.Browser()
	summary := strings.TrimSpace(name + " " + version)
	if os := ua.OS(); os != "" {
		summary += " / " + os
	}
	if ua.Bot() {
		summary += " (bot)"
	}
	return truncate(summary, 100)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
