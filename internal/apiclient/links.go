package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"linkadmin/internal/models"
)

func (c *Client) ListLinks(ctx context.Context) ([]models.Link, error) {
	var resp struct {
		Links []models.Link `json:"links"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/links", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Links, nil
}

func (c *Client) AddLink(ctx context.Context, url string) (models.Link, error) {
	var resp struct {
		Link *models.Link `json:"link"`
	}
	body := map[string]string{"url": url}
	if err := c.do(ctx, http.MethodPost, "/api/links", body, &resp); err != nil {
		return models.Link{}, err
	}
	if resp.Link == nil {
		return models.Link{}, &RequestError{
			Message:    "response is missing link",
			StatusCode: http.StatusOK,
			Err:        errors.New("missing link field"),
		}
	}
	return *resp.Link, nil
}

// RemoveLink deletes a link by id. The server decides whether repeated
// deletes are errors.
func (c *Client) RemoveLink(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/links/%d", id), nil, nil)
}
