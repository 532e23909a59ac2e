package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"linkadmin/internal/models"

	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps the most recent health probes.
type HistoryStore interface {
	Append(ctx context.Context, status models.HealthStatus) error
	// Recent returns up to n probes, newest first.
	Recent(ctx context.Context, n int) ([]models.HealthStatus, error)
}

type MemoryHistory struct {
	mu    sync.RWMutex
	items []models.HealthStatus // oldest first
	size  int
}

func NewMemoryHistory(size int) *MemoryHistory {
	if size <= 0 {
		size = 1
	}
	return &MemoryHistory{size: size}
}

func (h *MemoryHistory) Append(_ context.Context, status models.HealthStatus) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, status)
	if over := len(h.items) - h.size; over > 0 {
		h.items = append([]models.HealthStatus(nil), h.items[over:]...)
	}
	return nil
}

func (h *MemoryHistory) Recent(_ context.Context, n int) ([]models.HealthStatus, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n > len(h.items) || n <= 0 {
		n = len(h.items)
	}
	out := make([]models.HealthStatus, 0, n)
	for i := len(h.items) - 1; i >= len(h.items)-n; i-- {
		out = append(out, h.items[i])
	}
	return out, nil
}

const DefaultHistoryKey = "linkadmin:health:history"

// RedisHistory keeps probes in a capped Redis list so history survives
// dashboard restarts and is shared between replicas.
type RedisHistory struct {
	client *redis.Client
	key    string
	size   int
}

func NewRedisHistory(client *redis.Client, key string, size int) *RedisHistory {
	if key == "" {
		key = DefaultHistoryKey
	}
	if size <= 0 {
		size = 1
	}
	return &RedisHistory{client: client, key: key, size: size}
}

func (h *RedisHistory) Append(ctx context.Context, status models.HealthStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode probe: %w", err)
	}
	_, err = h.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, h.key, payload)
		pipe.LTrim(ctx, h.key, 0, int64(h.size-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("append probe history: %w", err)
	}
	return nil
}

func (h *RedisHistory) Recent(ctx context.Context, n int) ([]models.HealthStatus, error) {
	if n <= 0 || n > h.size {
		n = h.size
	}
	raw, err := h.client.LRange(ctx, h.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read probe history: %w", err)
	}
	out := make([]models.HealthStatus, 0, len(raw))
	for _, item := range raw {
		var status models.HealthStatus
		if err := json.Unmarshal([]byte(item), &status); err != nil {
			continue
		}
		out = append(out, status)
	}
	return out, nil
}
