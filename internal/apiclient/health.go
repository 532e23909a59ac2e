package apiclient

import (
	"context"
	"net/http"

	"linkadmin/internal/models"
)

func (c *Client) GetStats(ctx context.Context) (models.Stats, error) {
	var resp struct {
		Statistics models.Stats `json:"statistics"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return models.Stats{}, err
	}
	return resp.Statistics, nil
}

// GetHealth returns the raw probe body. Callers that must never see a
// transport error should go through services.HealthMonitor instead.
func (c *Client) GetHealth(ctx context.Context) (models.HealthStatus, error) {
	var resp models.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return models.HealthStatus{}, err
	}
	return resp, nil
}
