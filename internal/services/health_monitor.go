package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"linkadmin/internal/models"
)

const UnreachableMessage = "API is unreachable"

// HealthProber is the part of the API client the monitor needs.
type HealthProber interface {
	GetHealth(ctx context.Context) (models.HealthStatus, error)
}

// HealthMonitor polls the remote health endpoint on a fixed interval and on
// demand. Probes are never deduplicated; each one takes an issue sequence
// number and its result is applied only if no later-issued probe has already
// been applied.
type HealthMonitor struct {
	prober   HealthProber
	history  HistoryStore
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	issued    uint64
	applied   uint64
	latest    models.HealthStatus
	hasLatest bool
	subs      map[chan models.HealthStatus]struct{}
}

func NewHealthMonitor(prober HealthProber, history HistoryStore, logger *slog.Logger, interval time.Duration) *HealthMonitor {
	if history == nil {
		history = NewMemoryHistory(20)
	}
	return &HealthMonitor{
		prober:   prober,
		history:  history,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		subs:     make(map[chan models.HealthStatus]struct{}),
	}
}

// Start probes once immediately and then every interval until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.logger.Info("Health monitor starting", "interval", m.interval)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ticker.C:
			m.Check(ctx)
		case <-ctx.Done():
			m.logger.Info("Health monitor stopping")
			return
		}
	}
}

// Refresh is the on-demand probe behind the status view's Refresh button.
func (m *HealthMonitor) Refresh(ctx context.Context) models.HealthStatus {
	return m.Check(ctx)
}

// Check runs one probe and returns its own result. A failed probe is reported
// as unhealthy rather than as an error.
func (m *HealthMonitor) Check(ctx context.Context) models.HealthStatus {
	m.mu.Lock()
	m.issued++
	seq := m.issued
	m.mu.Unlock()

	status, err := m.prober.GetHealth(ctx)
	if err != nil {
		m.logger.Warn("Health probe failed", "error", err)
		status = models.HealthStatus{
			Success:   false,
			Message:   UnreachableMessage,
			Timestamp: m.now(),
			Uptime:    0,
		}
	}

	if m.apply(seq, status) {
		if err := m.history.Append(context.WithoutCancel(ctx), status); err != nil {
			m.logger.Warn("Failed to record health history", "error", err)
		}
	} else {
		m.logger.Debug("Discarding stale health probe", "seq", seq)
	}
	return status
}

func (m *HealthMonitor) apply(seq uint64, status models.HealthStatus) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq <= m.applied {
		return false
	}
	m.applied = seq
	m.latest = status
	m.hasLatest = true
	for ch := range m.subs {
		select {
		case ch <- status:
		default:
		}
	}
	return true
}

// Latest returns the most recently applied probe.
func (m *HealthMonitor) Latest() (models.HealthStatus, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.hasLatest
}

func (m *HealthMonitor) History(ctx context.Context, n int) ([]models.HealthStatus, error) {
	return m.history.Recent(ctx, n)
}

// Subscribe returns a channel receiving every applied probe. Slow receivers
// miss updates instead of blocking the monitor. Call the returned func to
// unsubscribe.
func (m *HealthMonitor) Subscribe() (<-chan models.HealthStatus, func()) {
	ch := make(chan models.HealthStatus, 1)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
		})
	}
}
