package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"linkadmin/internal/models"
)

func (c *Client) ListUsers(ctx context.Context) (models.UsersSnapshot, error) {
	var resp models.UsersSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &resp); err != nil {
		return models.UsersSnapshot{}, err
	}
	return resp, nil
}

// ResetUser asks the server to restore a user's quota and returns the
// recomputed record.
func (c *Client) ResetUser(ctx context.Context, userID string) (models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	path := "/api/users/" + url.PathEscape(userID) + "/reset"
	if err := c.do(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return models.User{}, err
	}
	if resp.User == nil {
		return models.User{}, &RequestError{
			Message:    "response is missing user",
			StatusCode: http.StatusOK,
			Err:        errors.New("missing user field"),
		}
	}
	return *resp.User, nil
}
